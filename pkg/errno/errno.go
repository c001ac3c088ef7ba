package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrTokenInvalid     = Errno{Code: 10003, Message: "Token invalid"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	// 签名流程
	ErrHashMismatch     = Errno{Code: 20101, Message: "Transaction hash mismatch (integrity failure)"}
	ErrUnsupportedTx    = Errno{Code: 20102, Message: "Unsupported transaction payload type"}
	ErrSignerNotFound   = Errno{Code: 20103, Message: "Signer not found on ledger"}
	ErrNoLocalKey       = Errno{Code: 20104, Message: "No local key material for this signer"}
	ErrDecryptionFailed = Errno{Code: 20105, Message: "Key decryption failed (wrong or missing passphrase)"}
	ErrSubmissionFailed = Errno{Code: 20106, Message: "Envelope submission rejected by ledger"}
)
