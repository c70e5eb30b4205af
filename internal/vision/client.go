// Package vision adapts waste-item photos into classification suggestions via
// an external image-classification provider. The provider's reply is treated
// as opaque free text; the keyword mapper turns it into a category and the
// gateway synthesizes a bounded confidence, since the provider reports none.
package vision

import (
	"context"
	"errors"
	"fmt"
)

// Image is an in-memory photo payload handed to the classifier.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client defines the transport to one classification provider.
type Client interface {
	// DescribeWaste sends the image and returns the provider's free-text
	// classification. An empty reply with a nil error is possible and is the
	// gateway's problem, not the client's.
	DescribeWaste(ctx context.Context, img Image, credential string) (string, error)
}

// Classification failure sentinels.
var (
	// ErrCredentialMissing means no API credential is configured for the
	// caller. The gateway refuses to attempt the remote call.
	ErrCredentialMissing = errors.New("classifier credential missing")
	// ErrEmptyResponse means the provider succeeded but returned no usable
	// classification text.
	ErrEmptyResponse = errors.New("classifier returned no usable text")
)

// TransportError wraps a network-level failure talking to the provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("classifier transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError is a non-success response from the provider; Message carries
// the provider's own explanation so the user can see it.
type ProviderError struct {
	Message    string
	StatusCode int
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("classifier provider rejected request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("classifier provider rejected request (status %d): %s", e.StatusCode, e.Message)
}
