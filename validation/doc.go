// Package validation checks configuration and request payloads.
//
// Struct validates tagged structs with go-playground/validator, and Checker
// collects hand-written checks. Both report failures as *Error.
package validation
