package repositories

// Registry bundles one implementation of every repository
type Registry struct {
	Users            UserRepository
	Meetings         MeetingRepository
	AgendaItems      AgendaItemRepository
	ActionItems      ActionItemRepository
	Minutes          MinuteRepository
	Attendance       AttendanceRepository
	Presenters       PresenterRepository
	ExternalRequests ExternalRequestRepository
	Transitions      TransitionRepository
}
