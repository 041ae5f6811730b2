package services

import (
	"context"

	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

// KnowledgeService saves and fetches the user's learning profile.
type KnowledgeService struct {
	api Caller
}

func NewKnowledgeService(api Caller) *KnowledgeService {
	return &KnowledgeService{api: api}
}

// Save merges the given knowledge points into the profile and optionally
// updates the learning goal.
func (s *KnowledgeService) Save(ctx context.Context, username, goal string, points []string) (*protocol.KnowledgeResponse, error) {
	msg, err := protocol.MarshalPayload(protocol.SaveKnowledgeType, &protocol.SaveKnowledgeRequest{
		Username:        username,
		LearningGoal:    goal,
		KnowledgePoints: points,
	})
	if err != nil {
		return nil, err
	}
	return s.call(ctx, msg)
}

// Get fetches the profile: the learning goal and the knowledge points, most
// recently learned first.
func (s *KnowledgeService) Get(ctx context.Context, username string) (*protocol.KnowledgeResponse, error) {
	msg, err := protocol.MarshalPayload(protocol.GetKnowledgeType, &protocol.GetKnowledgeRequest{
		Username: username,
	})
	if err != nil {
		return nil, err
	}
	return s.call(ctx, msg)
}

func (s *KnowledgeService) call(ctx context.Context, msg *protocol.Message) (*protocol.KnowledgeResponse, error) {
	reply, err := s.api.Call(ctx, msg)
	if err != nil {
		return nil, err
	}
	var resp protocol.KnowledgeResponse
	if err := protocol.UnmarshalPayload(reply, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
