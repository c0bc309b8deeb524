package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
)

func TestUserID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.UserID
		wantErr bool
	}{
		{name: "valid simple", id: "alice", wantErr: false},
		{name: "valid with dots and at", id: "alice.smith@example.com", wantErr: false},
		{name: "valid with hyphen and underscore", id: "user_01-a", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "path traversal", id: "../etc/passwd", wantErr: true},
		{name: "whitespace", id: "alice smith", wantErr: true},
		{name: "slash", id: "users/alice", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestNewChallengeID(t *testing.T) {
	id1 := types.NewChallengeID()
	id2 := types.NewChallengeID()

	gt.Value(t, string(id1)).NotEqual("")
	gt.Value(t, id1).NotEqual(id2)
	gt.NoError(t, id1.Validate())
}

func TestChallengeID_Validate(t *testing.T) {
	gt.Error(t, types.ChallengeID("").Validate())
	gt.Error(t, types.ChallengeID("not-a-uuid").Validate())
	gt.NoError(t, types.ChallengeID("7a0c1f34-9d0e-4a66-b9a2-5a4f0f1c2d3e").Validate())
}
