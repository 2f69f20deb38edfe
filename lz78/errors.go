package lz78

// Error is the wrapper type for sentinel errors returned by this package.
type Error string

func (e Error) Error() string { return "lz78: " + string(e) }

var (
	// ErrInitialization is returned by the engine constructors when the
	// underlying BitStream cannot be opened.
	ErrInitialization error = Error("initialization failed")

	// ErrMode is returned when a Config's Mode does not match the engine
	// being constructed.
	ErrMode error = Error("operation not valid for engine mode")

	// ErrRead is returned on a hard (non-would-block) failure reading from
	// a source.
	ErrRead error = Error("read failed")

	// ErrWrite is returned on a hard (non-would-block) failure writing to
	// a sink.
	ErrWrite error = Error("write failed")

	// ErrAgain is returned when the engine could not complete its current
	// step because the source or sink is not ready. All engine state is
	// preserved; the caller should invoke the same method again once
	// ready.
	ErrAgain error = Error("would block")

	// ErrCompress is returned on an internal compression failure.
	ErrCompress error = Error("compression failed")

	// ErrDecompress is returned when the compressed stream is corrupt:
	// an illegal code, or a malformed START/SIZE preamble.
	ErrDecompress error = Error("corrupt or invalid compressed stream")

	// ErrDictionary is returned when a dictionary cannot be (re)allocated,
	// e.g. during the decompressor's post-SIZE-announce allocation.
	ErrDictionary error = Error("dictionary allocation failed")
)
