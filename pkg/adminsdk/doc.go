/*
Package adminsdk is a Go client for the QuietVector admin API.

# Overview

The package is organized around two types:

  - SDKClient: unauthenticated calls (health) and login
  - Session: every authenticated call, carrying the bearer token and the
    CSRF token issued at login

	client := adminsdk.NewSDKClient("http://127.0.0.1:8090")

	session, err := client.Login(ctx, "admin", password, "")
	if err != nil {
		return err
	}

	cols, err := session.ListCollections(ctx)

# Snapshot restore

Restores run asynchronously on the server. RestoreSnapshot streams the file
and returns the operation id; WaitForOperation polls until the operation
reaches a terminal stage:

	started, err := session.RestoreSnapshot(ctx, "docs", "docs.snapshot", f)
	if err != nil {
		return err
	}
	op, err := session.WaitForOperation(ctx, started.OpID, time.Second)

# Errors

Every non-success response is returned as *APIError carrying the status
code and the server's error message.

The request and response types in this package are also the wire types of
the server's handlers.
*/
package adminsdk
