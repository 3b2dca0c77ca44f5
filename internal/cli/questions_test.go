package cli

import (
	"testing"
)

func TestValidateQuestionsFlags(t *testing.T) {
	tests := []struct {
		name    string
		skills  string
		wantErr bool
	}{
		{
			name:    "skill list present",
			skills:  "Go, SQL",
			wantErr: false,
		},
		{
			name:    "single skill",
			skills:  "Kubernetes",
			wantErr: false,
		},
		{
			name:    "empty skill list rejected",
			skills:  "",
			wantErr: true,
		},
		{
			name:    "whitespace-only skill list rejected",
			skills:  "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestionsFlags(tt.skills)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateQuestionsFlags(%q) error = %v, wantErr %v", tt.skills, err, tt.wantErr)
			}
		})
	}
}
