package core

import (
	"context"
	"fmt"
	"path"
	"time"

	run "cloud.google.com/go/run/apiv2"
	"cloud.google.com/go/run/apiv2/runpb"
	"google.golang.org/api/option"
)

// ServiceStatus is a flattened view of a deployed Cloud Run service.
type ServiceStatus struct {
	URI                 string
	LatestReadyRevision string
	Image               string
	Ready               bool
	Message             string // terminal condition message, if any
	Env                 []string
	LastDeployed        time.Time
}

// FetchServiceStatus queries the Cloud Run Admin API for the configured
// service and returns its current state.
func FetchServiceStatus(ctx context.Context, cfg Config, opts ...option.ClientOption) (*ServiceStatus, error) {
	client, err := run.NewServicesClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cloud run client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf("projects/%s/locations/%s/services/%s",
		cfg.ProjectID, cfg.Region, cfg.ServiceName())
	svc, err := client.GetService(ctx, &runpb.GetServiceRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("get service %s: %w", name, err)
	}
	return summarizeService(svc), nil
}

func summarizeService(svc *runpb.Service) *ServiceStatus {
	st := &ServiceStatus{URI: svc.GetUri()}
	if rev := svc.GetLatestReadyRevision(); rev != "" {
		st.LatestReadyRevision = path.Base(rev)
	}
	if tc := svc.GetTerminalCondition(); tc != nil {
		st.Ready = tc.GetState() == runpb.Condition_CONDITION_SUCCEEDED
		st.Message = tc.GetMessage()
	}
	if tmpl := svc.GetTemplate(); tmpl != nil && len(tmpl.GetContainers()) > 0 {
		c := tmpl.GetContainers()[0]
		st.Image = c.GetImage()
		for _, e := range c.GetEnv() {
			st.Env = append(st.Env, e.GetName()+"="+e.GetValue())
		}
	}
	if ut := svc.GetUpdateTime(); ut != nil {
		st.LastDeployed = ut.AsTime()
	}
	return st
}
