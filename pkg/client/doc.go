/*
Package client provides the authenticated HTTP client bitte uses to talk to
the Nomad API.

Every request carries the ACL token in the X-Nomad-Token header. The token is
held as a Token, which prints and serializes as "[redacted]" so it cannot leak
through logs, error messages or snapshot output. Use Value to read the raw
token.

# Usage

	c := client.NewClient(client.Token(os.Getenv("NOMAD_TOKEN")))

	var nodes []nodeStub
	err := c.GetJSON(ctx, "https://nomad.example.io/v1/nodes", nil, &nodes)

# Errors

GetJSON classifies failures with the sentinel errors of the types package:

	types.ErrNetwork  connection failures and non-2xx responses
	types.ErrDecode   response bodies that are not the expected JSON

Both name the URL that failed. Callers use errors.Is to tell them apart.
*/
package client
