package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func stakeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        "stake",
		Description: "Amount of credits to stake",
		Required:    true,
	}
}

// registerCommands registers all slash commands with Discord. When a guild
// ID is configured, commands are scoped to it so they appear instantly.
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest players",
		},
		{
			Name:        "grant",
			Description: "Grant credits to a player (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to receive the credits",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "amount",
					Description: "Amount of credits to grant",
					Required:    true,
				},
			},
		},
		{
			Name:        "roulette",
			Description: "Spin the wheel: green pays 14x, red and black pay 1x",
			Options: []*discordgo.ApplicationCommandOption{
				stakeOption(),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pick",
					Description: "Color to bet on",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Green", Value: "green"},
						{Name: "Red", Value: "red"},
						{Name: "Black", Value: "black"},
					},
				},
			},
		},
		{
			Name:        "slots",
			Description: "Spin three reels: triple pays 5x, pair pays 1x",
			Options:     []*discordgo.ApplicationCommandOption{stakeOption()},
		},
		{
			Name:        "poker",
			Description: "High card against the dealer, winner takes 2x",
			Options:     []*discordgo.ApplicationCommandOption{stakeOption()},
		},
		{
			Name:        "minesweeper",
			Description: "Pick a tile and dodge the mine for a 1.2x payout",
			Options: []*discordgo.ApplicationCommandOption{
				stakeOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "tile",
					Description: "Tile to uncover (1-6)",
					Required:    true,
					MinValue:    float64Ptr(1),
					MaxValue:    6,
				},
			},
		},
		{
			Name:        "wordlinks",
			Description: "Guess the hidden word's letter count for 3x",
			Options: []*discordgo.ApplicationCommandOption{
				stakeOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "guess",
					Description: "How many letters the hidden word has",
					Required:    true,
				},
			},
		},
		{
			Name:        "showdown",
			Description: "Draw a total against the dealer, higher pays 1.5x",
			Options:     []*discordgo.ApplicationCommandOption{stakeOption()},
		},
		{
			Name:        "blackjack",
			Description: "Open an interactive blackjack table",
		},
		{
			Name:        "slotmachine",
			Description: "Play the weighted slot machine with hold buttons",
			Options:     []*discordgo.ApplicationCommandOption{stakeOption()},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.DiscordGuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func float64Ptr(v float64) *float64 {
	return &v
}
