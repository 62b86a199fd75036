/*
Package remote runs actions on cluster nodes over ssh.

SSH builds the invocation used for every node:

	ssh -x -p 22 [-i secrets/ssh-<cluster>] -o StrictHostKeyChecking=accept-new root@<public ip> [args...]

The key is only passed when the file exists. Commands run through a Runner,
by default ExecRunner with the terminal attached, so interactive sessions
work.

# Fan-out

Actions over several nodes run either one at a time or all at once:

	remote.Sequential(ctx, nodes, delay, action)  // stops at the first failure
	remote.Parallel(ctx, nodes, action)           // collects every failure

Sequential waits delay between nodes but not after the last one. Parallel
starts one goroutine per node and joins all errors in node order.

AllocShell gives the remote command for a shell inside a Nomad allocation's
directory on the node that hosts it.
*/
package remote
