package common

import "errors"

var (

	// store errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorStorage       = errors.New("storage error")

	// codec errors
	ErrorMalformedPayload = errors.New("malformed payload")
	ErrorUnrecognizedType = errors.New("unrecognized payload type")
	ErrorPayloadTooLarge  = errors.New("payload exceeds barcode capacity")
	ErrorNoCode           = errors.New("no code in frame")

	// capture errors
	ErrorCameraUnavailable = errors.New("camera unavailable")
	ErrorScanInProgress    = errors.New("scan already in progress")

	// attendance errors
	ErrorInvalidToken  = errors.New("invalid token")
	ErrorAlreadyMarked = errors.New("attendance already marked today")

	// auth errors
	ErrorInvalidPassword = errors.New("invalid password")
	ErrorValidation      = errors.New("validation error")
)
