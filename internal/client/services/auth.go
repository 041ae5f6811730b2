package services

import (
	"context"

	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

// AuthService performs login and registration against the server.
type AuthService struct {
	api Caller
}

func NewAuthService(api Caller) *AuthService {
	return &AuthService{api: api}
}

// Login authenticates the user. The server answers with the legacy bare
// marker; anything other than "yes" counts as a rejection.
func (s *AuthService) Login(ctx context.Context, username string, password []byte) (bool, error) {
	msg, err := protocol.MarshalPayload(protocol.LoginType, &protocol.LoginRequest{
		User:     username,
		Password: string(password),
	})
	if err != nil {
		return false, err
	}

	reply, err := s.api.CallMarker(ctx, msg)
	if err != nil {
		return false, err
	}
	return reply.Marker == protocol.MarkerYes, nil
}

// Register creates an account and returns the server's verdict. A non-nil
// response with a code other than RegisterSuccess is not an error here; the
// caller decides how to present it.
func (s *AuthService) Register(ctx context.Context, req *protocol.RegisterRequest) (*protocol.RegisterResponse, error) {
	msg, err := protocol.MarshalPayload(protocol.RegisterType, req)
	if err != nil {
		return nil, err
	}

	reply, err := s.api.Call(ctx, msg)
	if err != nil {
		return nil, err
	}

	var resp protocol.RegisterResponse
	if err := protocol.UnmarshalPayload(reply, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
