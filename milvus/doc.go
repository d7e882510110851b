// Package milvus adapts the Milvus Go SDK to hook.Client.
//
// NewClient is a hook.ClientFactory. It maps a resolved connection onto the
// SDK configuration (uri, user, password, database name and API token) and
// uses the connection timeout as the default deadline of every call.
// Transport failures are tagged with core.ErrConnectionRefused,
// core.ErrAuthenticationFailed or core.ErrTimeout; insert failures without a
// transport cause are tagged with core.ErrRemoteOperationFailed.
package milvus
