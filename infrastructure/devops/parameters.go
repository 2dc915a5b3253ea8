package devops

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type parameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads YAML documents from SSM Parameter Store. Values are
// fetched once per name.
type ParameterStore struct {
	client parameterAPI

	mu    sync.Mutex
	cache map[string]string
}

func NewParameterStore(ctx context.Context) (*ParameterStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &ParameterStore{client: ssm.NewFromConfig(cfg)}, nil
}

func (p *ParameterStore) Get(ctx context.Context, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.cache[name]; ok {
		return v, nil
	}

	out, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}

	if p.cache == nil {
		p.cache = map[string]string{}
	}
	p.cache[name] = *out.Parameter.Value
	return *out.Parameter.Value, nil
}

// LoadYAML unmarshals the named parameter into out.
func (p *ParameterStore) LoadYAML(ctx context.Context, name string, out any) error {
	v, err := p.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(v), out); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}
