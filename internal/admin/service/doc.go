// Package service holds the admin use cases. Services validate input,
// talk to the vector store and the operation tracker, and return domain
// errors that the HTTP layer maps to status codes.
package service
