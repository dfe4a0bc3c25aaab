package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const notificationStreamPath = "/v1/notifications/stream"

var (
	athleteOnly    = []user.Role{user.RoleAthlete}
	agencyOnly     = []user.Role{user.RoleAgency}
	parentOnly     = []user.Role{user.RoleParent}
	agencyOrAdmin  = []user.Role{user.RoleAgency, user.RoleAdmin}
	complianceDesk = []user.Role{user.RoleComplianceOfficer, user.RoleAdmin}
	dealReaders    = []user.Role{user.RoleAthlete, user.RoleParent, user.RoleComplianceOfficer, user.RoleAdmin}
	participants   = []user.Role{user.RoleAgency, user.RoleAthlete}
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("GET /v1/me", authorized(auth, handler.GetMe))

	registerAthleteRoutes(mux, handler, auth)
	registerCampaignRoutes(mux, handler, auth)
	registerDealRoutes(mux, handler, auth)
	registerImportRoutes(mux, handler, auth)
	registerParentRoutes(mux, handler, auth)
	registerNotificationRoutes(mux, handler, auth)
	registerConversationRoutes(mux, handler, auth)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST "+usecase.JobPathSendEmail, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSendEmailJob)))
	mux.Handle("POST "+usecase.JobPathRecomputeMatches, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeMatchesJob)))
}

func registerAthleteRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("PUT /v1/athletes/me", authorized(auth, handler.UpsertMyAthleteProfile, athleteOnly...))
	mux.Handle("GET /v1/athletes/me", authorized(auth, handler.GetMyAthleteProfile, athleteOnly...))
	mux.Handle("GET /v1/athletes/me/matches", authorized(auth, handler.ListMyAthleteMatches, athleteOnly...))
	mux.Handle("GET /v1/athletes/{athleteID}", authorized(auth, handler.GetAthleteProfile))
	mux.Handle("GET /v1/discovery/athletes", authorized(auth, handler.DiscoverAthletes, agencyOrAdmin...))

	mux.Handle("POST /v1/agencies/me/saved-athletes", authorized(auth, handler.SaveAthlete, agencyOnly...))
	mux.Handle("GET /v1/agencies/me/saved-athletes", authorized(auth, handler.ListSavedAthletes, agencyOnly...))
	mux.Handle("DELETE /v1/agencies/me/saved-athletes/{athleteID}", authorized(auth, handler.RemoveSavedAthlete, agencyOnly...))
}

func registerCampaignRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("POST /v1/campaigns", authorized(auth, handler.CreateCampaign, agencyOnly...))
	mux.Handle("GET /v1/campaigns", authorized(auth, handler.ListMyCampaigns, agencyOnly...))
	mux.Handle("GET /v1/campaigns/{campaignID}", authorized(auth, handler.GetCampaign))
	mux.Handle("PUT /v1/campaigns/{campaignID}", authorized(auth, handler.UpdateCampaign, agencyOnly...))
	mux.Handle("POST /v1/campaigns/{campaignID}/close", authorized(auth, handler.CloseCampaign, agencyOnly...))
	mux.Handle("GET /v1/campaigns/{campaignID}/matches", authorized(auth, handler.ListCampaignMatches, agencyOnly...))
	mux.Handle("PUT /v1/campaigns/{campaignID}/matches/{athleteID}", authorized(auth, handler.UpdateMatchStatus, agencyOnly...))
}

func registerDealRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("POST /v1/deals", authorized(auth, handler.SubmitDeal, athleteOnly...))
	mux.Handle("GET /v1/deals", authorized(auth, handler.ListDeals))
	mux.Handle("POST /v1/deals/analyze", authorized(auth, handler.AnalyzeDealDocument, dealReaders...))
	mux.Handle("GET /v1/deals/{dealID}", authorized(auth, handler.GetDeal))
	mux.Handle("POST /v1/deals/{dealID}/review", authorized(auth, handler.ReviewDeal, user.RoleComplianceOfficer))
	mux.Handle("GET /v1/compliance/action-items", authorized(auth, handler.ListComplianceActionItems, complianceDesk...))
}

func registerImportRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("POST /v1/imports/athletes/validate", authorized(auth, handler.ValidateRosterImport, agencyOrAdmin...))
	mux.Handle("GET /v1/imports/{importID}", authorized(auth, handler.GetRosterImport, agencyOrAdmin...))
	mux.Handle("POST /v1/imports/{importID}/commit", authorized(auth, handler.CommitRosterImport, agencyOrAdmin...))
}

func registerParentRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("POST /v1/invites", authorized(auth, handler.CreateInvite, athleteOnly...))
	mux.Handle("GET /v1/invites", authorized(auth, handler.ListInvites, athleteOnly...))
	mux.Handle("POST /v1/invites/accept", authorized(auth, handler.AcceptInvite, parentOnly...))
	mux.Handle("GET /v1/parents/me/athletes", authorized(auth, handler.ListLinkedAthletes, parentOnly...))
	mux.Handle("GET /v1/parents/me/dashboard", authorized(auth, handler.GetParentDashboard, parentOnly...))
}

func registerNotificationRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("GET /v1/notifications", authorized(auth, handler.ListNotifications))
	mux.Handle("GET "+notificationStreamPath, authorized(auth, handler.StreamNotifications))
	mux.Handle("POST /v1/notifications/read-all", authorized(auth, handler.MarkAllNotificationsRead))
	mux.Handle("POST /v1/notifications/{notificationID}/read", authorized(auth, handler.MarkNotificationRead))
}

func registerConversationRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	mux.Handle("POST /v1/conversations", authorized(auth, handler.StartConversation, participants...))
	mux.Handle("GET /v1/conversations", authorized(auth, handler.ListConversations, participants...))
	mux.Handle("POST /v1/conversations/{conversationID}/messages", authorized(auth, handler.SendMessage, participants...))
	mux.Handle("GET /v1/conversations/{conversationID}/messages", authorized(auth, handler.ListMessages, participants...))
	mux.Handle("POST /v1/conversations/{conversationID}/read", authorized(auth, handler.MarkConversationRead, participants...))
}

// authorized wraps fn with RequireAuth and, when roles are given, RequireRole.
func authorized(auth Authenticator, fn http.HandlerFunc, roles ...user.Role) http.Handler {
	var next http.Handler = fn
	if len(roles) > 0 {
		next = RequireRole(roles, next)
	}
	return RequireAuth(auth, next)
}
