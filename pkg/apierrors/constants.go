package apierrors

// Tasks
const (
	MsgFailListTask          = "errorListTask"
	MsgFailGetTask           = "failGetTask"
	MsgInvalidTaskID         = "invalidTaskID"
	MsgInvalidTaskPayload    = "invalidTaskPayload"
	MsgInvalidTaskFilter     = "invalidTaskFilter"
	MsgTaskNotFound          = "taskNotFound"
	MsgFailCreateTask        = "failCreateTask"
	MsgFailUpdateTask        = "failUpdateTask"
	MsgFailDeleteTask        = "failDeleteTask"
	MsgTaskAssignedToAdmin   = "taskAssignedToAdmin"
	MsgInvalidAssignee       = "invalidAssignee"
	MsgInvalidCommentPayload = "invalidCommentPayload"
	MsgFailCreateComment     = "failCreateComment"
)

// Authentication and authorization
const (
	MsgAuthRequired         = "authenticationRequired"
	MsgInvalidToken         = "invalidToken"
	MsgInvalidCredentials   = "invalidCredentials"
	MsgPermissionDenied     = "permissionDenied"
	MsgRequestThrottled     = "requestThrottled"
	MsgInvalidSignupPayload = "invalidSignupPayload"
	MsgInvalidRole          = "invalidRole"
	MsgUsernameTaken        = "usernameTaken"
	MsgFailSignup           = "failSignup"
	MsgInvalidLoginPayload  = "invalidLoginPayload"
	MsgFailLogin            = "failLogin"
	MsgInvalidRefresh       = "invalidRefreshPayload"
	MsgFailRefresh          = "failRefresh"
)

// Passwords
const (
	MsgInvalidPasswordPayload = "invalidPasswordPayload"
	MsgPasswordMismatch       = "passwordMismatch"
	MsgPasswordTooShort       = "passwordTooShort"
	MsgPasswordNumeric        = "passwordEntirelyNumeric"
	MsgPasswordCommon         = "passwordTooCommon"
	MsgPasswordSimilar        = "passwordSimilarToUsername"
	MsgPasswordTooLong        = "passwordTooLong"
	MsgFailChangePassword     = "failChangePassword"
	MsgPasswordChanged        = "passwordChanged"
)

// Users
const (
	MsgInvalidUserID  = "invalidUserID"
	MsgUserNotFound   = "userNotFound"
	MsgFailListUsers  = "failListUsers"
	MsgFailGetUser    = "failGetUser"
	MsgInternalServer = "internalServerError"
)
