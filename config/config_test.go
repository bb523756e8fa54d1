package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":        "9090",
		"BAD_INT":     "nine",
		"FLAG":        "true",
		"TIMEOUT":     "7",
		"EMPTY":       "",
		"NEG_TIMEOUT": "-3",
	}

	if got := GetInt(c, "PORT", 8080); got != 9090 {
		t.Errorf("GetInt = %d", got)
	}
	if got := GetInt(c, "BAD_INT", 5); got != 5 {
		t.Errorf("GetInt fallback = %d", got)
	}
	if !GetBool(c, "FLAG", false) {
		t.Error("GetBool = false")
	}
	if GetBool(c, "MISSING", false) {
		t.Error("GetBool default not honored")
	}
	if got := GetSeconds(c, "TIMEOUT", time.Second); got != 7*time.Second {
		t.Errorf("GetSeconds = %v", got)
	}
	if got := GetSeconds(c, "NEG_TIMEOUT", time.Second); got != time.Second {
		t.Errorf("GetSeconds negative = %v", got)
	}
	if got := GetString(c, "EMPTY", "fallback"); got != "fallback" {
		t.Errorf("GetString empty = %q", got)
	}
	if got := GetString(nil, "PORT", "8080"); got != "8080" {
		t.Errorf("GetString nil map = %q", got)
	}
}

func TestSplit(t *testing.T) {
	key, value := split("DSN=host=x user=y")
	if key != "DSN" || value != "host=x user=y" {
		t.Fatalf("split = %q, %q", key, value)
	}
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestMergeSSM(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{
			{Name: aws.String("/crowdconnect/prod/jwt_secret"), Value: aws.String("from-ssm")},
			{Name: aws.String("/crowdconnect/prod/PORT"), Value: aws.String("7000")},
		},
		{
			{Name: aws.String("/crowdconnect/prod/database_url"), Value: aws.String("postgres://db")},
		},
	}}
	c := map[string]string{"PORT": "8080"}

	merged, err := MergeSSM(context.Background(), client, "/crowdconnect/prod", c)
	if err != nil {
		t.Fatal(err)
	}
	if merged != 2 {
		t.Fatalf("merged = %d, want 2", merged)
	}
	if c["JWT_SECRET"] != "from-ssm" || c["DATABASE_URL"] != "postgres://db" {
		t.Fatalf("config = %v", c)
	}
	if c["PORT"] != "8080" {
		t.Fatalf("environment value was overwritten: %q", c["PORT"])
	}
	if client.calls != 2 {
		t.Fatalf("calls = %d, want 2", client.calls)
	}
}

func TestLoadSSMWithoutPath(t *testing.T) {
	n, err := LoadSSM(context.Background(), map[string]string{})
	if err != nil || n != 0 {
		t.Fatalf("LoadSSM = %d, %v", n, err)
	}
}
