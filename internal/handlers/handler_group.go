package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// groupHandler serves groups and everything scoped to a single group.
type groupHandler struct {
	groupService      portssvc.GroupSvcFacade
	membershipService portssvc.MembershipSvcFacade
	capitalService    portssvc.CapitalSvcFacade
	sharingService    portssvc.SharingSvcFacade
	meetingService    portssvc.MeetingSvcFacade
	reportingService  portssvc.ReportingSvcFacade
	ledgerService     portssvc.LedgerSvcFacade
}

func newGroupHandler(services *portssvc.ServiceContainer) *groupHandler {
	return &groupHandler{
		groupService:      services.Group,
		membershipService: services.Membership,
		capitalService:    services.Capital,
		sharingService:    services.Sharing,
		meetingService:    services.Meeting,
		reportingService:  services.Reporting,
		ledgerService:     services.Ledger,
	}
}

func registerGroupRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newGroupHandler(services)

	groups := rg.Group("/groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listGroups)
		groups.GET("/:group_id", h.getGroup)
		groups.PUT("/:group_id", h.updateGroup)
		groups.DELETE("/:group_id", h.deleteGroup)

		groups.GET("/:group_id/members", h.listMembers)
		groups.POST("/:group_id/members", h.addMember)
		groups.DELETE("/:group_id/members/:user_id", h.removeMember)
		groups.GET("/:group_id/members/:user_id/account-book", h.getAccountBook)
		groups.GET("/:group_id/members/:user_id/shares", h.getMemberShares)
		groups.PUT("/:group_id/committee", h.assignCommittee)

		groups.GET("/:group_id/capital", h.getCapital)
		groups.GET("/:group_id/sharing", h.previewSharing)
		groups.POST("/:group_id/sharing", h.executeSharing)

		groups.POST("/:group_id/meetings", h.createMeeting)
		groups.GET("/:group_id/meetings", h.listMeetings)

		groups.GET("/:group_id/transactions", h.listTransactions)
	}
}

// createGroup godoc
// @Summary Create a savings group
// @Description Forms a group inside a cycle. Unset fields take the standard defaults.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Cycle not found"
// @Failure 409 {object} ErrorResponse "Cycle completed"
// @Security BearerAuth
// @Router /groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create group")
		return
	}
	logger.Info("Group created", slog.Int64("group_id", group.GroupID), slog.Int64("cycle_id", group.CycleID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// listGroups godoc
// @Summary List groups
// @Tags groups
// @Produce json
// @Param cycleID query int false "Cycle"
// @Param status query string false "active, full, inactive or completed"
// @Param village query string false "Village, partial match"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListGroupsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *groupHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListGroupsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListGroupsResponse(groups))
}

// getGroup godoc
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param group_id path int true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id} [get]
func (h *groupHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	group, err := h.groupService.GetGroupByID(c.Request.Context(), actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get group")
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// updateGroup godoc
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Param group_id path int true "Group ID"
// @Param group body dto.UpdateGroupRequest true "Fields to change"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id} [put]
func (h *groupHandler) updateGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	group, err := h.groupService.UpdateGroup(c.Request.Context(), actor, groupID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update group")
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// deleteGroup godoc
// @Summary Delete a group
// @Description Refused while the group has members.
// @Tags groups
// @Param group_id path int true "Group ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id} [delete]
func (h *groupHandler) deleteGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), actor, groupID); err != nil {
		respondWithError(c, logger, err, "Failed to delete group")
		return
	}
	logger.Info("Group deleted", slog.Int64("group_id", groupID))
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List group members
// @Tags members
// @Produce json
// @Param group_id path int true "Group ID"
// @Success 200 {object} dto.ListMembersResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/members [get]
func (h *groupHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	members, err := h.membershipService.ListMembers(c.Request.Context(), actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list members")
		return
	}
	if members == nil {
		members = []domain.Membership{}
	}
	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: members})
}

// addMember godoc
// @Summary Add a member to a group
// @Tags members
// @Accept json
// @Produce json
// @Param group_id path int true "Group ID"
// @Param member body dto.AddMemberRequest true "User to add"
// @Success 201 {object} domain.Membership
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already a member or group full"
// @Security BearerAuth
// @Router /groups/{group_id}/members [post]
func (h *groupHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	membership, err := h.membershipService.AddMember(c.Request.Context(), actor, groupID, req.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add member")
		return
	}
	logger.Info("Member added", slog.Int64("group_id", groupID), slog.Int64("member_id", req.UserID))
	c.JSON(http.StatusCreated, membership)
}

// removeMember godoc
// @Summary Remove a member from a group
// @Tags members
// @Param group_id path int true "Group ID"
// @Param user_id path int true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{group_id}/members/{user_id} [delete]
func (h *groupHandler) removeMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), actor, groupID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to remove member")
		return
	}
	logger.Info("Member removed", slog.Int64("group_id", groupID), slog.Int64("member_id", userID))
	c.Status(http.StatusNoContent)
}

// assignCommittee godoc
// @Summary Seat a member on the committee
// @Description Assigns president, treasurer or secretary. userID 0 clears the seat.
// @Tags members
// @Accept json
// @Produce json
// @Param group_id path int true "Group ID"
// @Param committee body dto.AssignCommitteeRequest true "Role and member"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/committee [put]
func (h *groupHandler) assignCommittee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var req dto.AssignCommitteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}
	role, _ := domain.ParseCommitteeRole(req.Role)

	group, err := h.membershipService.AssignCommitteeRole(c.Request.Context(), actor, groupID, role, req.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to assign committee role")
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// getAccountBook godoc
// @Summary A member's account book
// @Description Shares, loans, repayments and solidarity for one member. Members may only read their own.
// @Tags members
// @Produce json
// @Param group_id path int true "Group ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} domain.MemberAccountBook
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/members/{user_id}/account-book [get]
func (h *groupHandler) getAccountBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	book, err := h.reportingService.GetMemberAccountBook(c.Request.Context(), actor, groupID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build account book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// getCapital godoc
// @Summary Share capital of a group
// @Description Total shares and per-member shares derived from completed share purchases.
// @Tags capital
// @Produce json
// @Param group_id path int true "Group ID"
// @Success 200 {object} domain.GroupCapital
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/capital [get]
func (h *groupHandler) getCapital(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	capital, err := h.capitalService.GetGroupCapital(c.Request.Context(), actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute group capital")
		return
	}
	c.JSON(http.StatusOK, capital)
}

// getMemberShares godoc
// @Summary Shares held by one member
// @Tags capital
// @Produce json
// @Param group_id path int true "Group ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.MemberSharesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/members/{user_id}/shares [get]
func (h *groupHandler) getMemberShares(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	shares, err := h.capitalService.MemberShares(ctx, actor, groupID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to count member shares")
		return
	}
	total, err := h.capitalService.TotalShares(ctx, actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to count group shares")
		return
	}
	c.JSON(http.StatusOK, dto.MemberSharesResponse{
		GroupID:     groupID,
		UserID:      userID,
		Shares:      shares,
		TotalShares: total,
	})
}

// previewSharing godoc
// @Summary Preview profit-sharing
// @Description Computes each member's payout without writing anything.
// @Tags sharing
// @Produce json
// @Param group_id path int true "Group ID"
// @Success 200 {object} domain.SharingPlan
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No shares or cycle not ready"
// @Security BearerAuth
// @Router /groups/{group_id}/sharing [get]
func (h *groupHandler) previewSharing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	plan, err := h.sharingService.PreviewSharing(c.Request.Context(), actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute profit-sharing")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// executeSharing godoc
// @Summary Execute profit-sharing
// @Description Records one profit_sharing entry per member and closes the group and its cycle. Runs once per group.
// @Tags sharing
// @Produce json
// @Param group_id path int true "Group ID"
// @Success 201 {object} domain.SharingPlan
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already shared, in progress, no shares or cycle not ready"
// @Security BearerAuth
// @Router /groups/{group_id}/sharing [post]
func (h *groupHandler) executeSharing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	plan, err := h.sharingService.ExecuteSharing(c.Request.Context(), actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to execute profit-sharing")
		return
	}
	logger.Info("Profit-sharing executed",
		slog.Int64("group_id", groupID),
		slog.String("total_capital", plan.TotalCapital.StringFixed(2)))
	c.JSON(http.StatusCreated, plan)
}

// createMeeting godoc
// @Summary Record a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Param group_id path int true "Group ID"
// @Param meeting body dto.CreateMeetingRequest true "Meeting details"
// @Success 201 {object} domain.Meeting
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/meetings [post]
func (h *groupHandler) createMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	meeting, err := h.meetingService.CreateMeeting(c.Request.Context(), actor, groupID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record meeting")
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

// listMeetings godoc
// @Summary List a group's meetings
// @Tags meetings
// @Produce json
// @Param group_id path int true "Group ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListMeetingsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/meetings [get]
func (h *groupHandler) listMeetings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var params dto.ListMeetingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	meetings, err := h.meetingService.ListMeetings(c.Request.Context(), actor, groupID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list meetings")
		return
	}
	if meetings == nil {
		meetings = []domain.Meeting{}
	}
	c.JSON(http.StatusOK, dto.ListMeetingsResponse{Meetings: meetings})
}

// listTransactions godoc
// @Summary List a group's ledger
// @Description Newest first, paged with an opaque nextToken.
// @Tags transactions
// @Produce json
// @Param group_id path int true "Group ID"
// @Param type query string false "Transaction type"
// @Param status query string false "Transaction status"
// @Param userID query int false "Member"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions [get]
func (h *groupHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	page, err := h.ledgerService.ListGroupTransactions(c.Request.Context(), actor, groupID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}
