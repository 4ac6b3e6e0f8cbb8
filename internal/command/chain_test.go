package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainFirstSuccess(t *testing.T) {
	runner := NewRecorder()
	chain := Chain{
		Label: "install",
		Attempts: []Attempt{
			{Name: "a", Argv: []string{"tool-a", "install"}},
			{Name: "b", Argv: []string{"tool-b", "install"}},
		},
	}

	result := chain.Eval(runner)
	assert.True(t, result.OK())
	assert.Equal(t, "a", result.Succeeded)
	assert.Equal(t, []string{"tool-a install"}, runner.Calls)
}

func TestChainFallsThrough(t *testing.T) {
	runner := NewRecorder()
	runner.Fail["tool-a"] = "not found"
	chain := Chain{
		Label: "install",
		Attempts: []Attempt{
			{Name: "a", Argv: []string{"tool-a", "install"}},
			{Name: "b", Argv: []string{"tool-b", "install"}},
		},
	}

	result := chain.Eval(runner)
	assert.True(t, result.OK())
	assert.Equal(t, "b", result.Succeeded)
	assert.Equal(t, []string{"a"}, result.Tried)
	assert.Len(t, result.Errs, 1)
}

func TestChainAllFail(t *testing.T) {
	runner := NewRecorder()
	runner.Fail["tool-a"] = "no"
	runner.Fail["tool-b"] = "also no"
	chain := Chain{
		Label: "install",
		Attempts: []Attempt{
			{Name: "a", Argv: []string{"tool-a"}},
			{Name: "b", Argv: []string{"tool-b"}},
		},
	}

	result := chain.Eval(runner)
	assert.False(t, result.OK())
	assert.Equal(t, []string{"a", "b"}, result.Tried)
	assert.Contains(t, result.Error(), "a: no")
	assert.Contains(t, result.Error(), "b: also no")
}

func TestRecorderOutputs(t *testing.T) {
	runner := NewRecorder()
	runner.Outputs["supervisorctl status"] = "myapp_default RUNNING\n"

	out, err := runner.Output("supervisorctl", "status")
	assert.NoError(t, err)
	assert.Contains(t, out, "myapp_default")
	assert.True(t, runner.Ran("supervisorctl status"))
	assert.False(t, runner.Ran("systemctl"))
}
