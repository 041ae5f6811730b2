package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

// getCommaSeparated is an indirection used to facilitate testing.
var getCommaSeparated = GetCommaSeparated

// SaveKnowledge prompts for a learning goal and a list of knowledge points
// and merges them into the logged-in user's profile. Points the profile
// already holds stay untouched on the server.
func (a *App) SaveKnowledge(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Please log in first.")
		return nil
	}

	goal, err := getSimpleText(a.reader, "Enter learning goal (leave empty to keep current)", os.Stdout)
	if err != nil {
		return err
	}

	points, err := getCommaSeparated(a.reader, "Enter knowledge points (comma separated)", os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.knowledgeService.Save(ctx, a.userName, goal, points)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if resp.Status != protocol.StatusSuccess {
		fmt.Printf("Save failed: %s\n", resp.Message)
		return nil
	}

	fmt.Println("Saved.")
	return nil
}

// GetKnowledge fetches and prints the logged-in user's profile.
func (a *App) GetKnowledge(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Please log in first.")
		return nil
	}

	resp, err := a.knowledgeService.Get(ctx, a.userName)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if resp.Status != protocol.StatusSuccess {
		fmt.Printf("Fetch failed: %s\n", resp.Message)
		return nil
	}

	fmt.Printf("Learning goal: %s\n", resp.LearningGoal)
	if len(resp.KnowledgePoints) == 0 {
		fmt.Println("No knowledge points yet.")
		return nil
	}
	fmt.Println("Knowledge points (most recent first):")
	for _, p := range resp.KnowledgePoints {
		fmt.Printf("  - %s\n", p)
	}
	return nil
}
