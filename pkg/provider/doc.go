/*
Package provider defines the cloud inventory capability and the registry of
its implementations.

A Source lists the running instances of a cluster across a set of regions.
Each cloud lives in its own subpackage and registers itself at init:

	func init() {
		provider.Register(types.ProviderAWS, func() (provider.Source, error) {
			return New(), nil
		})
	}

The command imports the subpackages for their side effect and selects one by
name:

	src, err := provider.New(types.ProviderAWS)

Supporting another cloud means implementing Source in a new subpackage. An
unregistered name fails with types.ErrConfigInvalid.
*/
package provider
