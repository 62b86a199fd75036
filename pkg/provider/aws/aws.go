package aws

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/metrics"
	"github.com/input-output-hk/bitte/pkg/provider"
	"github.com/input-output-hk/bitte/pkg/types"
)

// Well known instance tags
const (
	TagName    = "Name"
	TagUID     = "UID"
	TagASG     = "aws:autoscaling:groupName"
	TagCluster = "Cluster"
)

// SourceLabel is the metrics source label of inventory calls
const SourceLabel = "inventory"

func init() {
	provider.Register(types.ProviderAWS, func() (provider.Source, error) {
		return New(), nil
	})
}

// ClientFunc builds the EC2 client for one region
type ClientFunc func(ctx context.Context, region string) (ec2.DescribeInstancesAPIClient, error)

// Source lists cluster instances from EC2
type Source struct {
	clientFor ClientFunc
}

// Option configures a Source
type Option func(*Source)

// WithClientFunc replaces how regional clients are built
func WithClientFunc(f ClientFunc) Option {
	return func(s *Source) {
		s.clientFor = f
	}
}

// New creates an EC2 inventory source. Regional clients are configured from
// the ambient AWS credential chain.
func New(opts ...Option) *Source {
	s := &Source{clientFor: defaultClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultClient(ctx context.Context, region string) (ec2.DescribeInstancesAPIClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return ec2.NewFromConfig(cfg), nil
}

// Fetch describes the running instances tagged with cluster in every region
// concurrently. Regions are queried once each; nodes are returned in sorted
// region order, then in API order. The first failing region aborts the fetch.
func (s *Source) Fetch(ctx context.Context, cluster string, regions []string) ([]*types.Node, error) {
	regions = slices.Clone(regions)
	slices.Sort(regions)
	regions = slices.Compact(regions)

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.FetchDuration, SourceLabel)

	perRegion := make([][]*types.Node, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			nodes, err := s.fetchRegion(gctx, cluster, region)
			if err != nil {
				return fmt.Errorf("failed to connect to ec2.%s.amazonaws.com: %w", region, errors.Join(types.ErrNetwork, err))
			}
			perRegion[i] = nodes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.FetchErrors.WithLabelValues(SourceLabel).Inc()
		return nil, err
	}

	var nodes []*types.Node
	for _, rn := range perRegion {
		nodes = append(nodes, rn...)
	}
	return nodes, nil
}

func (s *Source) fetchRegion(ctx context.Context, cluster, region string) ([]*types.Node, error) {
	logger := log.WithRegion(SourceLabel, region)

	client, err := s.clientFor(ctx, region)
	if err != nil {
		return nil, err
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:" + TagCluster), Values: []string{cluster}},
			{Name: aws.String("instance-state-name"), Values: []string{"running"}},
		},
	}

	var nodes []*types.Node
	pages := ec2.NewDescribeInstancesPaginator(client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				nodes = append(nodes, NodeFromInstance(inst))
			}
		}
	}

	logger.Debug().Str("cluster", cluster).Int("nodes", len(nodes)).Msg("described instances")
	return nodes, nil
}

// NodeFromInstance converts an EC2 instance record into a Node. Missing tags
// become empty strings and missing or unparsable addresses become types.NoIP.
func NodeFromInstance(inst ec2types.Instance) *types.Node {
	node := &types.Node{
		ID:           aws.ToString(inst.InstanceId),
		PrivateIP:    parseIP(inst.PrivateIpAddress),
		PublicIP:     parseIP(inst.PublicIpAddress),
		InstanceType: string(inst.InstanceType),
	}

	if inst.Placement != nil {
		node.Zone = aws.ToString(inst.Placement.AvailabilityZone)
	}

	for _, tag := range inst.Tags {
		switch aws.ToString(tag.Key) {
		case TagName:
			node.Name = aws.ToString(tag.Value)
		case TagUID:
			node.NixOS = aws.ToString(tag.Value)
		case TagASG:
			node.ASG = aws.ToString(tag.Value)
		}
	}

	return node
}

func parseIP(s *string) netip.Addr {
	addr, err := netip.ParseAddr(aws.ToString(s))
	if err != nil {
		return types.NoIP
	}
	return addr
}
