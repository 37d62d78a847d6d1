package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// InteractionUser returns the user behind an interaction, which lives in a
// different field for guild and DM interactions.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID parses the interaction user's Discord ID.
func InteractionUserID(i *discordgo.InteractionCreate) (int64, error) {
	return strconv.ParseInt(InteractionUser(i).ID, 10, 64)
}

// GetDisplayName resolves a user's guild nickname, falling back to their
// global or account name.
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		if member, err := s.GuildMember(guildID, userID); err == nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil && member.User.GlobalName != "" {
				return member.User.GlobalName
			}
		}
	}

	user, err := s.User(userID)
	if err != nil {
		return userID
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
