// Package client contains the client-side transport and storage bootstrap.
//
// # Overview
//
//  1. DocumentSource / Client: the contract for reading remote collections.
//  2. GRPCClient: the gRPC implementation talking to feedrpc.DocumentService.
//     It attaches the access token and installation id as call metadata and
//     maps status codes to the sentinel errors in package common.
//  3. InitDatabase / RunMigrations: open the local SQLite file and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Unreachable servers and deadlines become common.ErrNetworkFailure; every
// other remote failure wraps common.ErrRemoteServiceFailure (with
// common.ErrUnauthorized or common.ErrorNotFound where the status says so).
// Nothing is retried here.
package client
