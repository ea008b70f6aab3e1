package core

import (
	"testing"

	"cloud.google.com/go/run/apiv2/runpb"
)

// ────────────────────────────────────────────────────────────────────────────
// summarizeService
// ────────────────────────────────────────────────────────────────────────────

func TestSummarizeService(t *testing.T) {
	svc := &runpb.Service{
		Uri:                 "https://education-insights-abc123-uc.a.run.app",
		LatestReadyRevision: "projects/p/locations/us-central1/services/s/revisions/education-insights-00007-abc",
		TerminalCondition: &runpb.Condition{
			State: runpb.Condition_CONDITION_SUCCEEDED,
		},
		Template: &runpb.RevisionTemplate{
			Containers: []*runpb.Container{{
				Image: "us-central1-docker.pkg.dev/p/apps/education-insights:42",
				Env: []*runpb.EnvVar{
					{Name: "MODEL_NAME", Values: &runpb.EnvVar_Value{Value: "gemini-2.0-flash"}},
					{Name: "BIGQUERY_DATASET", Values: &runpb.EnvVar_Value{Value: "education_data"}},
				},
			}},
		},
	}

	st := summarizeService(svc)

	if st.URI != "https://education-insights-abc123-uc.a.run.app" {
		t.Errorf("URI = %q", st.URI)
	}
	if st.LatestReadyRevision != "education-insights-00007-abc" {
		t.Errorf("LatestReadyRevision = %q, want bare revision name", st.LatestReadyRevision)
	}
	if !st.Ready {
		t.Error("Ready = false, want true for succeeded terminal condition")
	}
	if st.Image != "us-central1-docker.pkg.dev/p/apps/education-insights:42" {
		t.Errorf("Image = %q", st.Image)
	}
	if len(st.Env) != 2 || st.Env[0] != "MODEL_NAME=gemini-2.0-flash" {
		t.Errorf("Env = %v", st.Env)
	}
}

func TestSummarizeServiceNotReady(t *testing.T) {
	svc := &runpb.Service{
		TerminalCondition: &runpb.Condition{
			State:   runpb.Condition_CONDITION_FAILED,
			Message: "image not found",
		},
	}

	st := summarizeService(svc)
	if st.Ready {
		t.Error("Ready = true, want false for failed terminal condition")
	}
	if st.Message != "image not found" {
		t.Errorf("Message = %q", st.Message)
	}
}

func TestSummarizeServiceEmpty(t *testing.T) {
	st := summarizeService(&runpb.Service{})
	if st.Ready {
		t.Error("Ready = true for empty service")
	}
	if st.LatestReadyRevision != "" {
		t.Errorf("LatestReadyRevision = %q, want empty", st.LatestReadyRevision)
	}
	if len(st.Env) != 0 {
		t.Errorf("Env = %v, want empty", st.Env)
	}
	if !st.LastDeployed.IsZero() {
		t.Errorf("LastDeployed = %v, want zero", st.LastDeployed)
	}
}
