// SPDX-License-Identifier: Apache-2.0
package errors

import "net/http"

// HTTPError is implemented by errors that know which status code they
// should surface as.
type HTTPError interface {
	Error() string
	Code() int
}

func ToHTTP(err error) (string, int) {
	if herr, ok := err.(HTTPError); ok {
		return herr.Error(), herr.Code()
	}
	return err.Error(), http.StatusInternalServerError
}
