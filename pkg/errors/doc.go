// Package errors provides standardized error definitions for the RCT
// system. Sentinel values are centralized here so the console and
// controller sides test failures consistently with errors.Is.
package errors
