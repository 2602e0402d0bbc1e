package executor

import (
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
)

func TestCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{
			name: "create branch",
			cmd:  Command{Operation: OpCreateBranch, Repository: "group/project", Name: "feature", Ref: "main"},
		},
		{
			name: "delete tag needs no ref",
			cmd:  Command{Operation: OpDeleteTag, Repository: "group/project", Name: "v1"},
		},
		{
			name:    "unknown operation",
			cmd:     Command{Operation: "rename_branch", Repository: "group/project", Name: "x"},
			wantErr: true,
		},
		{
			name:    "missing repository",
			cmd:     Command{Operation: OpDeleteBranch, Name: "x"},
			wantErr: true,
		},
		{
			name:    "missing name",
			cmd:     Command{Operation: OpDeleteBranch, Repository: "group/project"},
			wantErr: true,
		},
		{
			name:    "create tag without ref",
			cmd:     Command{Operation: OpCreateTag, Repository: "group/project", Name: "v1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCommand_String(t *testing.T) {
	cmd := Command{Operation: OpCreateTag, Repository: "group/project", Name: "v1"}
	assert.Equal(t, "create_tag group/project v1", cmd.String())
}
