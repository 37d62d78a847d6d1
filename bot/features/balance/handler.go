package balance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gamba/bot/common"
	"gamba/currency"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", common.InteractionUser(i).ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user, err := f.ledger.EnsureAccount(ctx, discordID, common.InteractionUser(i).Username)
	if err != nil {
		log.Errorf("Error ensuring account for user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)

	message := fmt.Sprintf("%s, your current balance: **%s credits**", displayName, common.FormatCredits(user.Balance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	users, err := f.ledger.TopBalances(ctx, 10)
	if err != nil {
		log.Errorf("Error getting top balances: %v", err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	if len(users) == 0 {
		common.RespondWithError(s, i, "Nobody has played yet.")
		return
	}

	var lines strings.Builder
	for rank, user := range users {
		fmt.Fprintf(&lines, "**%d.** %s: %s credits\n", rank+1, user.Username, common.FormatCredits(user.Balance))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: lines.String(),
		Color:       0xFEE75C,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	callerID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if !f.config.IsAdmin(callerID) {
		common.RespondWithError(s, i, "You are not allowed to grant credits.")
		return
	}

	var amount float64
	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.FloatValue()
		case "user":
			target = opt.UserValue(s)
		}
	}

	if target == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	minor, err := currency.ToMinorUnits(amount)
	if err != nil {
		common.RespondWithError(s, i, "Amount must be greater than zero.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user, err := f.ledger.AddCredits(ctx, targetID, target.Username, minor)
	if err != nil {
		log.Errorf("Error granting %d to user %d: %v", minor, targetID, err)
		common.RespondWithError(s, i, "Unable to grant credits. Please try again.")
		return
	}

	message := fmt.Sprintf("✅ Granted **%s credits** to <@%s>. New balance: **%s credits**",
		common.FormatCredits(minor), target.ID, common.FormatCredits(user.Balance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to grant command: %v", err)
	}
}
