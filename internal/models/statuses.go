package models

type Designation string
type Gender string
type CandidateStatus string
type AssignmentStatus string
type RoleAssignmentStatus string

const (
	DesignationHR          Designation = "HR"
	DesignationManager     Designation = "Manager"
	DesignationBoardMember Designation = "Board Member"

	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"

	CandidateStatusNew            CandidateStatus = "New"
	CandidateStatusAssigned       CandidateStatus = "Assigned"
	CandidateStatusUnderReview    CandidateStatus = "Under Review"
	CandidateStatusShortlisted    CandidateStatus = "Shortlisted"
	CandidateStatusRejected       CandidateStatus = "Rejected"
	CandidateStatusOnHold         CandidateStatus = "On Hold"
	CandidateStatusReassignedToHR CandidateStatus = "Reassigned to HR"

	AssignmentStatusAssigned           AssignmentStatus = "Assigned"
	AssignmentStatusUnderReview        AssignmentStatus = "Under Review"
	AssignmentStatusInterviewScheduled AssignmentStatus = "Interview Scheduled"
	AssignmentStatusShortlisted        AssignmentStatus = "Shortlisted"
	AssignmentStatusRejected           AssignmentStatus = "Rejected"
	AssignmentStatusOnHold             AssignmentStatus = "On Hold"
	AssignmentStatusReassignedToHR     AssignmentStatus = "Reassigned to HR"
	AssignmentStatusFeedbackSubmitted  AssignmentStatus = "Feedback Submitted"

	RoleAssignmentPending  RoleAssignmentStatus = "pending"
	RoleAssignmentActive   RoleAssignmentStatus = "active"
	RoleAssignmentInactive RoleAssignmentStatus = "inactive"
)

// Designations - роли, на которые выдаются приглашения
func Designations() []Designation {
	return []Designation{DesignationHR, DesignationManager, DesignationBoardMember}
}

func (d Designation) IsValid() bool {
	switch d {
	case DesignationHR, DesignationManager, DesignationBoardMember:
		return true
	}
	return false
}

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func CandidateStatuses() []CandidateStatus {
	return []CandidateStatus{
		CandidateStatusNew,
		CandidateStatusAssigned,
		CandidateStatusUnderReview,
		CandidateStatusShortlisted,
		CandidateStatusRejected,
		CandidateStatusOnHold,
		CandidateStatusReassignedToHR,
	}
}

func (s CandidateStatus) IsValid() bool {
	for _, v := range CandidateStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

func AssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{
		AssignmentStatusAssigned,
		AssignmentStatusUnderReview,
		AssignmentStatusInterviewScheduled,
		AssignmentStatusShortlisted,
		AssignmentStatusRejected,
		AssignmentStatusOnHold,
		AssignmentStatusReassignedToHR,
		AssignmentStatusFeedbackSubmitted,
	}
}

func (s AssignmentStatus) IsValid() bool {
	for _, v := range AssignmentStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// MarksFeedbackSubmitted - статусы, после которых отзыв менеджера считается отправленным
func (s AssignmentStatus) MarksFeedbackSubmitted() bool {
	switch s {
	case AssignmentStatusFeedbackSubmitted,
		AssignmentStatusShortlisted,
		AssignmentStatusRejected,
		AssignmentStatusOnHold,
		AssignmentStatusReassignedToHR:
		return true
	}
	return false
}

// CandidateStatus - статус кандидата, который зеркалит статус назначения.
// У кандидата нет "Interview Scheduled" и "Feedback Submitted": оба означают,
// что кандидат все еще на рассмотрении.
func (s AssignmentStatus) CandidateStatus() CandidateStatus {
	switch s {
	case AssignmentStatusInterviewScheduled, AssignmentStatusFeedbackSubmitted:
		return CandidateStatusUnderReview
	default:
		return CandidateStatus(s)
	}
}
