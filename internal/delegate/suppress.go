package delegate

import (
	"bytes"
	"fmt"
	"io"
	"os"

	apperrors "datalens/internal/errors"
)

// invoke runs a delegate call with two guards: anything the call prints to
// stdout is captured so it cannot corrupt the single-JSON-document stdout
// contract, and a panic inside the call is converted into a DELEGATE error
// instead of unwinding the pipeline.
func invoke(name string, fn func() error) (captured string, err error) {
	orig := os.Stdout
	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		// No pipe, no suppression; still run the call guarded.
		return "", guard(name, fn)
	}

	os.Stdout = w
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	err = guard(name, fn)

	w.Close()
	os.Stdout = orig
	<-done
	r.Close()

	return buf.String(), err
}

// guard converts a panic inside fn into a DELEGATE error.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewDelegateError(
				fmt.Sprintf("%s panicked", name), fmt.Errorf("%v", r))
		}
	}()
	return fn()
}
