package video

import "errors"

var (
	// ErrInvalidMediaField is returned for a slot name that doesn't exist or
	// doesn't accept the requested kind of media.
	ErrInvalidMediaField = errors.New("invalid media field")

	// ErrInvalidResourceID is returned when a broker resource id isn't "<uuid>.<field>".
	ErrInvalidResourceID = errors.New("invalid resource id")

	// ErrInvalidMediaStatus is returned for an unknown encoder status.
	ErrInvalidMediaStatus = errors.New("invalid media status")

	// ErrMediaNotUploaded is returned when an encoding result arrives for a
	// slot that never received an upload.
	ErrMediaNotUploaded = errors.New("media not uploaded")

	// ErrMediaNotPending is returned when an encoding result arrives for
	// media that already reached a different terminal state.
	ErrMediaNotPending = errors.New("media is not pending")

	// ErrEncodedLocationRequired is returned when completion has no location.
	ErrEncodedLocationRequired = errors.New("encoded location is required")

	// ErrNotReadyToPublish is returned by MarkAsPublished until both the
	// trailer and the video are encoded.
	ErrNotReadyToPublish = errors.New("video is not ready to be published")
)

// IsMediaStateError reports errors caused by a result that doesn't fit the
// media state machine. Retrying such messages can never succeed.
func IsMediaStateError(err error) bool {
	return errors.Is(err, ErrMediaNotUploaded) ||
		errors.Is(err, ErrMediaNotPending) ||
		errors.Is(err, ErrInvalidMediaField) ||
		errors.Is(err, ErrInvalidResourceID) ||
		errors.Is(err, ErrInvalidMediaStatus) ||
		errors.Is(err, ErrEncodedLocationRequired)
}
