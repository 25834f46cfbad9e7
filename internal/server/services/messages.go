package services

// Caller-facing messages.
const (
	msgInternal = "An unexpected error occurred."

	msgRegisterRequired  = "Email, password, and confirmation password are required."
	msgPasswordsMismatch = "Passwords do not match."
	msgInvalidEmail      = "Invalid email format. Please enter a valid email address."
	msgUserExists        = "User already exists with the provided email."
	msgRegistered        = "Registration successful. Please check your email for the verification code."
	msgRegisterFailed    = "An unexpected error occurred during registration."

	msgVerifyRequired = "Email and verification code are required."
	msgUserNotFound   = "User not found."
	msgInvalidCode    = "Invalid verification code."
	msgVerified       = "Email verified successfully."

	msgEmailRequired   = "Email is required."
	msgAlreadyVerified = "Email is already verified."
	msgCodeResent      = "Verification code resent. Please check your email."

	msgLoginRequired      = "Email and password are required."
	msgInvalidCredentials = "Invalid email or password."
	msgEmailNotVerified   = "Please verify your email before logging in."

	msgForgotSent = "If an account with that email exists, a password reset code has been sent."

	msgResetRequired     = "Email, code, new password, and confirmation password are required."
	msgInvalidResetCode  = "Invalid or expired password reset code."
	msgPasswordResetDone = "Password has been reset successfully."

	msgTokenInvalid = "Token is not valid."
	msgTokenRevoked = "Token has been logged out. Please log in again."
	msgLoggedOut    = "Logged out successfully."
)
