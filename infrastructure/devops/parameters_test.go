package devops

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	values map[string]string
	calls  int
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(v)}}, nil
}

func TestParameterStoreLoadYAML(t *testing.T) {
	fake := &fakeSSM{values: map[string]string{
		"/attendance/config": "port: \"8080\"\nslackInfoChannel: C123\n",
	}}
	store := &ParameterStore{client: fake}

	var out struct {
		Port             string `yaml:"port"`
		SlackInfoChannel string `yaml:"slackInfoChannel"`
	}
	require.NoError(t, store.LoadYAML(context.Background(), "/attendance/config", &out))
	assert.Equal(t, "8080", out.Port)
	assert.Equal(t, "C123", out.SlackInfoChannel)

	_, err := store.Get(context.Background(), "/attendance/config")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)

	err = store.LoadYAML(context.Background(), "/missing", &out)
	assert.ErrorContains(t, err, "ParameterNotFound")
}
