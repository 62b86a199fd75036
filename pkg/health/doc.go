/*
Package health checks that nodes are reachable before remote actions.

A TCPChecker makes one connection attempt to an address and reports the
outcome as a Result. NewSSHChecker targets port 22 on a node's public
address, which is how deploy's --check-ssh verifies that every target accepts
SSH before anything is changed:

	checkers := make([]health.Checker, len(nodes))
	for i, n := range nodes {
		checkers[i] = health.NewSSHChecker(n)
	}
	if err := health.Unhealthy(health.CheckAll(ctx, checkers)); err != nil {
		return err
	}

Checks are single probes. Nothing here retries or monitors continuously.
*/
package health
