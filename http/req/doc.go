/*
Package req parses and validates the payloads of requests made to the enum HTTP surfaces.

It supports JSON-encoded payloads and payloads encoded in query parameters.
In both cases, package req expects to parse payloads into a pointer to a struct.
That struct ought to leverage the appropriate struct tags for performing two tasks.
First, matching keys in the payload to fields on the struct.
Second, validating the payload's data meets requirements.

Besides the rules github.com/go-playground/validator/v10 ships with,
the "enum" rule asserts a field, or each element of a slice field,
is an enum.Enumerable whose Valid method returns no error.
An enum.Ref field decodes from a token and satisfies the rule once it holds a value:

	type body struct {
		Day enum.Ref[weekday, string] `json:"day" validate:"enum"`
	}

Errors returned wrap the sentinels of this package,
providing a consistent interface for issues that arise across encoding types.
*/
package req
