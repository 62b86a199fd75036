/*
Package aws lists cluster members from Amazon EC2.

Importing the package registers it under types.ProviderAWS. Fetch issues one
DescribeInstances query per region, all concurrently, each with its own
regional client from the ambient credential chain:

	Filters:
	  tag:Cluster          = <cluster>
	  instance-state-name  = running

Instance tags map onto node fields:

	Name                       Node.Name
	UID                        Node.NixOS
	aws:autoscaling:groupName  Node.ASG

Missing tags leave the field empty. Missing or unparsable addresses become
0.0.0.0 instead of failing the fetch. Any region failing fails the whole
fetch with types.ErrNetwork, naming the regional endpoint.
*/
package aws
