package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// botNamespace derives stable user ids for bots that were never provisioned.
var botNamespace = uuid.MustParse("6f1c2a0e-3b7d-4f5e-9a51-c0bb1e5c2b11")

var (
	mu            sync.RWMutex
	botIdentities []BotIdentity
	botByID       = make(map[string]BotIdentity)
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		mu.Lock()
		defer mu.Unlock()
		botIdentities = identities
		for i := range botIdentities {
			if botIdentities[i].UserID == "" {
				botIdentities[i].UserID = fallbackUserID(botIdentities[i].Username)
			}
			botByID[botIdentities[i].UserID] = botIdentities[i]
		}
	})
	return loadErr
}

func fallbackUserID(name string) string {
	return uuid.NewSHA1(botNamespace, []byte(name)).String()
}

// ProvisionBots ensures that bot accounts exist in the Nakama database and carry is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}
			delete(botByID, identity.UserID)
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{"is_bot": true}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}

			botByID[userID] = *identity
			logger.Info("ProvisionBots: Bot %s (%s) is ready.", identity.DisplayName, userID)
		}
	})
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	mu.RLock()
	defer mu.RUnlock()
	identity, ok := botByID[userID]
	if !ok {
		return ""
	}
	if identity.DisplayName == "" {
		return identity.Username
	}
	return identity.DisplayName
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
// Without a loaded pool a stable identity is derived from the index and registered.
func GetBotIdentity(index int) BotIdentity {
	mu.Lock()
	defer mu.Unlock()
	if len(botIdentities) > 0 {
		return botIdentities[index%len(botIdentities)]
	}
	name := fmt.Sprintf("bot-%d", index)
	identity := BotIdentity{
		UserID:      fallbackUserID(name),
		Username:    name,
		DisplayName: fmt.Sprintf("AI Player %d", index+1),
	}
	botByID[identity.UserID] = identity
	return identity
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := botByID[userID]
	return ok
}
