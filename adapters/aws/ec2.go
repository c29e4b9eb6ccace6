package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// EC2Inventory is an inventory source backed by DescribeInstances. Each
// Load performs a fresh paginated scan; there is no caching contract.
type EC2Inventory struct {
	client *ec2.Client
	region string
}

// NewEC2Inventory creates a live EC2 inventory source
func NewEC2Inventory(cfg aws.Config) *EC2Inventory {
	return &EC2Inventory{
		client: ec2.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// Load implements inventory.Source
func (s *EC2Inventory) Load(ctx context.Context) ([]types.Instance, error) {
	var instances []types.Instance

	paginator := ec2.NewDescribeInstancesPaginator(s.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Inventory("describe instances", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				tags := make(map[string]string, len(inst.Tags))
				for _, t := range inst.Tags {
					tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
				}

				mapped := types.Instance{
					Region:     s.region,
					InstanceID: aws.ToString(inst.InstanceId),
					Type:       string(inst.InstanceType),
					Tags:       tags,
				}
				if inst.State != nil {
					mapped.State = string(inst.State.Name)
				}
				if inst.LaunchTime != nil {
					mapped.LaunchTime = *inst.LaunchTime
				}
				instances = append(instances, mapped)
			}
		}
	}
	return instances, nil
}
