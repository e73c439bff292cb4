package domain

const (
	TripRoleCreator = "CREATOR"
	TripRoleAdmin   = "ADMIN"
	TripRoleMember  = "MEMBER"
)

const (
	PollStatusActive    = "ACTIVE"
	PollStatusCompleted = "COMPLETED"
	PollStatusTie       = "TIE"
)

const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusDeclined = "DECLINED"
)

const (
	NotifTypeTripInvite    = "TRIP_INVITE"
	NotifTypeMemberJoined  = "MEMBER_JOINED"
	NotifTypeMemberLeft    = "MEMBER_LEFT"
	NotifTypeEventCreated  = "EVENT_CREATED"
	NotifTypeEventReminder = "EVENT_REMINDER"
	NotifTypeTripReminder  = "TRIP_REMINDER"
	NotifTypePollCreated   = "POLL_CREATED"
	NotifTypePollCompleted = "POLL_COMPLETED"
	NotifTypeExpenseAdded  = "EXPENSE_ADDED"
	NotifTypeNewMessage    = "NEW_MESSAGE"
)

// Channel hints on scheduled notifications. Advisory only: the
// dispatcher always materializes an in-app row; push is best effort.
const (
	ChannelInApp = "IN_APP"
	ChannelPush  = "PUSH"
)

const (
	ExpenseCategoryFood      = "FOOD"
	ExpenseCategoryTransport = "TRANSPORT"
	ExpenseCategoryLodging   = "LODGING"
	ExpenseCategoryActivity  = "ACTIVITY"
	ExpenseCategoryOther     = "OTHER"
)
