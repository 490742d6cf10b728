// Package internal holds process-level setup shared by the commands.
package internal
