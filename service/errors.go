package service

import "errors"

// Sentinel errors surfaced to callers. Wrap with fmt.Errorf("%w: ...") so
// callers can branch with errors.Is while keeping context in the message.
var (
	// ErrOwnerNotFound means the referenced agent or affiliate does not exist
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrWithdrawalNotFound means the referenced withdrawal does not exist
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// ErrCampaignNotFound means the campaign code is unknown or the campaign is paused
	ErrCampaignNotFound = errors.New("campaign not found or inactive")

	// ErrPlayerNotFound means the referenced player does not exist
	ErrPlayerNotFound = errors.New("player not found")

	// ErrInsufficientBalance means a withdrawal amount exceeds the withdrawable balance.
	// Client error; retrying without a corrected amount will fail again.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrValidation means the input was rejected before any transaction began
	ErrValidation = errors.New("validation failed")
)
