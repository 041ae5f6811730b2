package tcp

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/smartlearn/internal/common"
	"github.com/dmitrijs2005/smartlearn/internal/logging"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
	"github.com/dmitrijs2005/smartlearn/internal/server/services"
)

// registerMessages maps register outcome codes onto the human-readable text
// sent back in the message member.
var registerMessages = map[protocol.RegisterCode]string{
	protocol.RegisterSuccess:     "registration successful",
	protocol.CodeUsernameExists:  "username already exists",
	protocol.CodeEmailExists:     "email already registered",
	protocol.CodeInvalidUsername: "invalid username: 4-20 characters, letters, digits or underscore, starting with a letter",
	protocol.CodeInvalidPassword: "invalid password: too short or missing letters/digits",
	protocol.CodeInvalidEmail:    "invalid email address",
	protocol.CodeInvalidPhone:    "invalid phone number",
	protocol.CodeDatabaseError:   "database error, please try again later",
}

// Handlers binds the protocol message types to the business services.
type Handlers struct {
	users     *services.UserService
	knowledge *services.KnowledgeService
	logger    logging.Logger
}

func NewHandlers(users *services.UserService, knowledge *services.KnowledgeService, logger logging.Logger) *Handlers {
	return &Handlers{users: users, knowledge: knowledge, logger: logger}
}

// Register wires every request type into the dispatcher.
func (h *Handlers) Register(d *Dispatcher) {
	d.Handle(protocol.LoginType, h.handleLogin)
	d.Handle(protocol.RegisterType, h.handleRegister)
	d.Handle(protocol.SaveKnowledgeType, h.handleSaveKnowledge)
	d.Handle(protocol.GetKnowledgeType, h.handleGetKnowledge)
}

// handleLogin answers with the legacy bare marker: "yes" on success, "no" for
// bad credentials, unknown users, disabled accounts, and store failures alike.
// The marker frame cannot carry a correlation identifier, which is why clients
// must not pipeline a second login before the first one is answered.
func (h *Handlers) handleLogin(ctx context.Context, msg *protocol.Message, remoteAddr string) *protocol.Message {
	var req protocol.LoginRequest
	if err := protocol.UnmarshalPayload(msg, &req); err != nil {
		h.logger.Warn(ctx, "bad login payload", "remote", remoteAddr, "error", err.Error())
		return protocol.NewMarker(protocol.MarkerNo)
	}

	ok, err := h.users.Login(ctx, req.User, req.Password, hostOnly(remoteAddr))
	if err != nil {
		h.logger.Error(ctx, "login failed", "user", req.User, "error", err.Error())
		return protocol.NewMarker(protocol.MarkerNo)
	}
	if !ok {
		h.logger.Info(ctx, "login rejected", "user", req.User, "remote", remoteAddr)
		return protocol.NewMarker(protocol.MarkerNo)
	}

	h.logger.Info(ctx, "login accepted", "user", req.User, "remote", remoteAddr)
	return protocol.NewMarker(protocol.MarkerYes)
}

func (h *Handlers) handleRegister(ctx context.Context, msg *protocol.Message, remoteAddr string) *protocol.Message {
	var req protocol.RegisterRequest
	if err := protocol.UnmarshalPayload(msg, &req); err != nil {
		h.logger.Warn(ctx, "bad register payload", "remote", remoteAddr, "error", err.Error())
		return registerReply(msg.RequestID(), protocol.CodeDatabaseError, 0)
	}

	params := services.RegisterParams{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Grade:    req.Grade,
		Major:    req.Major,
		Role:     req.Role,
	}
	res, err := h.users.Register(ctx, params, hostOnly(remoteAddr))
	if err != nil {
		h.logger.Error(ctx, "register failed", "user", req.Username, "error", err.Error())
		return registerReply(msg.RequestID(), protocol.CodeDatabaseError, 0)
	}

	if res.Code == protocol.RegisterSuccess {
		h.logger.Info(ctx, "user registered", "user", req.Username, "user_id", res.UserID)
	}
	return registerReply(msg.RequestID(), res.Code, res.UserID)
}

func (h *Handlers) handleSaveKnowledge(ctx context.Context, msg *protocol.Message, remoteAddr string) *protocol.Message {
	var req protocol.SaveKnowledgeRequest
	if err := protocol.UnmarshalPayload(msg, &req); err != nil {
		h.logger.Warn(ctx, "bad save payload", "remote", remoteAddr, "error", err.Error())
		return knowledgeError(msg.RequestID(), "invalid request")
	}

	err := h.knowledge.Save(ctx, req.Username, req.LearningGoal, req.KnowledgePoints, hostOnly(remoteAddr))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return knowledgeError(msg.RequestID(), "user not found")
		}
		h.logger.Error(ctx, "saving knowledge failed", "user", req.Username, "error", err.Error())
		return knowledgeError(msg.RequestID(), "database error, please try again later")
	}

	reply, err := protocol.MarshalPayload(protocol.KnowledgeResponseType, &protocol.KnowledgeResponse{
		RequestID: msg.RequestID(),
		Status:    protocol.StatusSuccess,
		Message:   "knowledge saved",
	})
	if err != nil {
		h.logger.Error(ctx, "building save reply", "error", err.Error())
		return nil
	}
	return reply
}

func (h *Handlers) handleGetKnowledge(ctx context.Context, msg *protocol.Message, remoteAddr string) *protocol.Message {
	var req protocol.GetKnowledgeRequest
	if err := protocol.UnmarshalPayload(msg, &req); err != nil {
		h.logger.Warn(ctx, "bad get payload", "remote", remoteAddr, "error", err.Error())
		return knowledgeError(msg.RequestID(), "invalid request")
	}

	profile, err := h.knowledge.Get(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return knowledgeError(msg.RequestID(), "user not found")
		}
		h.logger.Error(ctx, "loading knowledge failed", "user", req.Username, "error", err.Error())
		return knowledgeError(msg.RequestID(), "database error, please try again later")
	}

	reply, err := protocol.MarshalPayload(protocol.KnowledgeResponseType, &protocol.KnowledgeResponse{
		RequestID:       msg.RequestID(),
		Status:          protocol.StatusSuccess,
		KnowledgePoints: profile.KnowledgePoints,
		LearningGoal:    profile.LearningGoal,
	})
	if err != nil {
		h.logger.Error(ctx, "building get reply", "error", err.Error())
		return nil
	}
	return reply
}

func registerReply(requestID string, code protocol.RegisterCode, userID int64) *protocol.Message {
	status := protocol.StatusError
	if code == protocol.RegisterSuccess {
		status = protocol.StatusSuccess
	}
	reply, err := protocol.MarshalPayload(protocol.RegisterResponseType, &protocol.RegisterResponse{
		RequestID: requestID,
		Status:    status,
		ErrorCode: code,
		Message:   registerMessages[code],
		UserID:    userID,
	})
	if err != nil {
		return nil
	}
	return reply
}

func knowledgeError(requestID, message string) *protocol.Message {
	reply, err := protocol.MarshalPayload(protocol.KnowledgeResponseType, &protocol.KnowledgeResponse{
		RequestID: requestID,
		Status:    protocol.StatusError,
		Message:   message,
	})
	if err != nil {
		return nil
	}
	return reply
}

// hostOnly strips the port from a remote address for audit log rows.
func hostOnly(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
