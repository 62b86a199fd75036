/*
Package deploy redeploys NixOS configurations onto cluster nodes.

A deployment has two steps, both run as external commands:

 1. Regenerate the secrets of every target's configuration:

	nix run .#nixosConfigurations.'<nixos>'.config.secrets.generateScript

    A failure here is logged and the deployment continues.

 2. Run the deploy tool once for all targets, passing extra flags through:

	deploy --targets .#<nixos>@<public ip>:22 ... [flags...]

With Options.CheckSSH set, every target is first probed on port 22 and a
single unreachable target aborts before anything is changed.

The configuration name of a node is its UID tag, carried as Node.NixOS.
*/
package deploy
