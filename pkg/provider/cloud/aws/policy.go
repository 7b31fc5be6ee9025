/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package aws

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const glueServicePrincipal = "glue.amazonaws.com"

var (
	// This allows the Glue service to assume the role.
	assumeRolePolicyTpl = template.Must(template.New("assume-role-policy").Funcs(sprig.TxtFuncMap()).Parse(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": { "Service": {{ .ServicePrincipal | quote }} },
      "Action": "sts:AssumeRole"
    }
  ]
}
`))

	// The permissions Glue jobs and crawlers need to run at all, based on
	// the AWSGlueServiceRole managed policy.
	glueServicePolicyTpl = template.Must(template.New("glue-service-policy").Funcs(sprig.TxtFuncMap()).Parse(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": [
        "glue:*",
        "s3:GetBucketLocation",
        "s3:ListBucket",
        "s3:ListAllMyBuckets",
        "s3:GetBucketAcl",
        "ec2:DescribeVpcEndpoints",
        "ec2:DescribeRouteTables",
        "ec2:CreateNetworkInterface",
        "ec2:DeleteNetworkInterface",
        "ec2:DescribeNetworkInterfaces",
        "ec2:DescribeSecurityGroups",
        "ec2:DescribeSubnets",
        "ec2:DescribeVpcAttribute",
        "iam:ListRolePolicies",
        "iam:GetRole",
        "iam:GetRolePolicy",
        "cloudwatch:PutMetricData"
      ],
      "Resource": ["*"]
    },
    {
      "Effect": "Allow",
      "Action": ["s3:CreateBucket", "s3:PutBucketPublicAccessBlock"],
      "Resource": ["arn:aws:s3:::aws-glue-*"]
    },
    {
      "Effect": "Allow",
      "Action": ["s3:GetObject", "s3:PutObject", "s3:DeleteObject"],
      "Resource": [
        "arn:aws:s3:::aws-glue-*/*",
        "arn:aws:s3:::*/*aws-glue-*/*"
      ]
    },
    {
      "Effect": "Allow",
      "Action": ["s3:GetObject"],
      "Resource": [
        "arn:aws:s3:::crawler-public*",
        "arn:aws:s3:::aws-glue-*"
      ]
    },
    {
      "Effect": "Allow",
      "Action": [
        "logs:CreateLogGroup",
        "logs:CreateLogStream",
        "logs:PutLogEvents",
        "logs:AssociateKmsKey"
      ],
      "Resource": ["arn:aws:logs:*:*:/aws-glue/*"]
    },
    {
      "Effect": "Allow",
      "Action": ["ec2:CreateTags", "ec2:DeleteTags"],
      "Condition": {
        "ForAllValues:StringEquals": {
          "aws:TagKeys": ["aws-glue-service-resource"]
        }
      },
      "Resource": [
        "arn:aws:ec2:*:*:network-interface/*",
        "arn:aws:ec2:*:*:security-group/*",
        "arn:aws:ec2:*:*:instance/*"
      ]
    }
  ]
}
`))

	// Grants the role full object access to the lakehouse bucket.
	bucketAccessPolicyTpl = template.Must(template.New("bucket-access-policy").Funcs(sprig.TxtFuncMap()).Parse(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "ListObjectsInBucket",
      "Effect": "Allow",
      "Action": ["s3:ListBucket"],
      "Resource": [{{ printf "arn:aws:s3:::%s" .BucketName | quote }}]
    },
    {
      "Sid": "AllObjectActions",
      "Effect": "Allow",
      "Action": "s3:*Object",
      "Resource": [{{ printf "arn:aws:s3:::%s/*" .BucketName | quote }}]
    }
  ]
}
`))
)

type assumeRoleTplData struct {
	ServicePrincipal string
}

type bucketPolicyTplData struct {
	BucketName string
}

func getAssumeRolePolicy() (string, error) {
	return renderPolicy(assumeRolePolicyTpl, assumeRoleTplData{
		ServicePrincipal: glueServicePrincipal,
	})
}

func getGlueServicePolicy() (string, error) {
	return renderPolicy(glueServicePolicyTpl, nil)
}

func getBucketAccessPolicy(bucketName string) (string, error) {
	if bucketName == "" {
		return "", fmt.Errorf("no bucket name given")
	}

	return renderPolicy(bucketAccessPolicyTpl, bucketPolicyTplData{
		BucketName: bucketName,
	})
}

func renderPolicy(tpl *template.Template, data interface{}) (string, error) {
	buf := &bytes.Buffer{}
	if err := tpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tpl.Name(), err)
	}

	return buf.String(), nil
}
