// Package utils provides common utility functions for the POS backend.
// It includes helpers for the DD-MM-YYYY date format used throughout the
// billing API and other shared logic that doesn't fit into domain-specific
// packages.
package utils
