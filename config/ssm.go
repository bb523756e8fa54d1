package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadSSM fetches every parameter under SSM_PARAMETER_PATH and merges it into c.
// It is a no-op when the path is not configured.
func LoadSSM(ctx context.Context, c map[string]string) (int, error) {
	prefix := GetString(c, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return 0, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading aws config: %w", err)
	}
	return MergeSSM(ctx, ssm.NewFromConfig(awsCfg), prefix, c)
}

// MergeSSM copies parameters under prefix into c, keyed by the last path
// segment. Keys already present in c win over SSM values.
func MergeSSM(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, c map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	merged := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return merged, fmt.Errorf("reading ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := c[key]; ok && existing != "" {
				continue
			}
			c[key] = aws.ToString(p.Value)
			merged++
		}
	}
	return merged, nil
}
