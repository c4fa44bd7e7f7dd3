// Package client talks to a multiadmin host over HTTP.
//
//	c := client.New("http://127.0.0.1:8080", client.WithToken(token))
//	admins, err := c.ListAdmins(ctx)
//	err = c.AddAdmins(ctx, []host.HumanAddr{"bob"})
//
// Host error responses are returned as *APIError, which unwraps to the
// matching admin or auth sentinel so callers can use errors.Is.
package client
