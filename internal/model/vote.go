package model

import "fmt"

// VoteDirection is either up or down.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Delta is the change a vote applies before the zero floor.
func (d VoteDirection) Delta() int {
	if d == VoteDown {
		return -1
	}
	return 1
}

// ParseVoteDirection accepts "up" and "down".
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch VoteDirection(s) {
	case VoteUp, VoteDown:
		return VoteDirection(s), nil
	default:
		return "", fmt.Errorf("invalid vote direction %q", s)
	}
}

// ApplyVote returns the vote count after a vote; it never drops below zero.
func ApplyVote(current int, d VoteDirection) int {
	next := current + d.Delta()
	if next < 0 {
		return 0
	}
	return next
}
