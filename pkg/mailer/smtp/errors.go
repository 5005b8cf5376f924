package smtp

import "errors"

var (
	ErrMissingHost         = errors.New("smtp: host is required")
	ErrInvalidPort         = errors.New("smtp: invalid port")
	ErrInvalidTLSMode      = errors.New("smtp: tls mode must be one of none, starttls, tls")
	ErrStartTLSUnsupported = errors.New("smtp: server does not support STARTTLS")
)
