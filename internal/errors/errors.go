package errors

import "errors"

var ErrMissingConfig = errors.New("missing required configuration")
var ErrReminderExists = errors.New("payment reminder already recorded for milestone")
var ErrEmailNotConfigured = errors.New("email service not configured")
var ErrPushNotConfigured = errors.New("push service not configured")
