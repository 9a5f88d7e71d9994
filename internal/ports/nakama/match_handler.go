package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/config"
	"cribbage/internal/domain"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	matchTickRate = 1 // ticks per second; timers below count ticks

	errCodeBadRequest = 400
	errCodeForbidden  = 403
	errCodeConflict   = 409
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
// MatchLoop is the only goroutine that touches it, so a table's PlayState needs no lock.
type MatchState struct {
	Seats     [domain.MaxPlayers]string   `json:"seats"`      // User IDs, empty string means seat is empty
	Capacity  int                         `json:"capacity"`   // Seats in use at this table
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the match owner
	Tick      int64                       `json:"tick"`       // Current tick of the match for turn-based logic
	Presences map[string]runtime.Presence `json:"-"`          // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`          // Cribbage app service with game logic
	Game      *domain.Game                `json:"-"`          // Current game (nil in the lobby)
	GameID    string                      `json:"game_id"`    // Identifier of the current game for logs and clients
	Players   []string                    `json:"players"`    // Game seat -> user ID for the current game
	Config    config.GameConfig           `json:"config"`

	TurnDeadline         int64                 `json:"turn_deadline"`           // Tick at which the pending action is taken automatically
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent `json:"-"`                       // Agents for bot seats and for humans who left mid-game

	rng        *rand.Rand
	labelPhase string
}

func newMatchState(cfg config.GameConfig) *MatchState {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &MatchState{
		Capacity:  cfg.Seats,
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(rand.New(rand.NewSource(rng.Int63()))),
		Config:    cfg,
		Bots:      make(map[string]*bot.Agent),
		rng:       rng,
	}
}

func (ms *MatchState) seats() []string {
	return ms.Seats[:ms.Capacity]
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.seats() {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return ms.Capacity - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.seats() {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// gameSeat returns the seat userID holds in the running game, or -1.
func (ms *MatchState) gameSeat(userID string) int {
	for i, id := range ms.Players {
		if id == userID {
			return i
		}
	}
	return -1
}

// agentFor returns the agent driving seat, if the seat is a bot or a player who left.
func (ms *MatchState) agentFor(seat int) (*bot.Agent, bool) {
	if seat < 0 || seat >= len(ms.Players) {
		return nil, false
	}
	agent, ok := ms.Bots[ms.Players[seat]]
	return agent, ok
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.GetGameConfig().ApplyEnv(env)
	if seats := paramInt(params, "seats"); seats >= domain.MinPlayers && seats <= domain.MaxPlayers {
		cfg.Seats = seats
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("MatchInit: Invalid config (%v), using defaults", err)
		cfg = config.Default()
	}

	state := newMatchState(cfg)
	label, err := marshalLabel(state.GetOpenSeatsCount(), string(domain.PhaseLobby))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: %d seats, bots enabled=%t, winning score %d", cfg.Seats, cfg.BotsEnabled, cfg.WinningScore)
	return state, matchTickRate, label
}

// paramInt reads an integer match parameter, which arrives as float64 when created from JSON.
func paramInt(params map[string]interface{}, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Players returning to a running game take their seat back.
	if matchState.Game != nil {
		if matchState.gameSeat(presence.GetUserId()) >= 0 {
			return state, true, ""
		}
		return state, false, "Game in progress"
	}

	// Allow join if there is an empty seat OR a bot to replace.
	if matchState.GetOpenSeatsCount() <= 0 {
		for _, seat := range matchState.seats() {
			if isBotUserId(seat) {
				return state, true, ""
			}
		}
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if matchState.gameSeat(userID) >= 0 {
			delete(matchState.Bots, userID)
			logger.Info("MatchJoin: User %s rejoined game %s", userID, matchState.GameID)
			continue
		}

		// Assign seat: Try empty seats first, then bots (if lobby)
		assigned := false
		for i, seatUserId := range matchState.seats() {
			if seatUserId == "" {
				matchState.Seats[i] = userID
				assigned = true
				break
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserId := range matchState.seats() {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, userID, i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = userID
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.seats(), matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.seats())
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		// Mid-game the seat is kept and played by an agent until the player returns.
		if seat := matchState.gameSeat(userID); seat >= 0 {
			matchState.Bots[userID] = bot.NewAgent(userID, rand.New(rand.NewSource(matchState.rng.Int63())))
			logger.Info("MatchLeave: User %s left game %s, seat %d is now automated.", userID, matchState.GameID, seat)
			continue
		}

		for i, seatUserId := range matchState.seats() {
			if seatUserId == userID {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, i)
				break
			}
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected players.")
		return nil
	}

	if !isConnectedSeat(matchState, matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstConnectedSeat(matchState)
		logger.Debug("MatchLeave: Owner set to seat %d.", matchState.OwnerSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func isConnectedSeat(state *MatchState, seat int) bool {
	seats := state.seats()
	if seat < 0 || seat >= len(seats) || seats[seat] == "" {
		return false
	}
	_, ok := state.Presences[seats[seat]]
	return ok
}

// findFirstConnectedSeat returns the first seat whose occupant is connected, or -1.
func findFirstConnectedSeat(state *MatchState) int {
	for i := range state.seats() {
		if isConnectedSeat(state, i) {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpDiscard:
			mh.handleDiscard(matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(matchState, dispatcher, logger, msg)
		case OpGo:
			mh.handleGo(matchState, dispatcher, logger, msg)
		case OpNextRound:
			mh.handleNextRound(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Config.BotsEnabled {
		mh.autoFillBots(matchState, dispatcher, logger)
	}
	mh.processBots(matchState, dispatcher, logger)
	mh.processTurnTimer(matchState, dispatcher, logger)

	return matchState
}

// autoFillBots seats bots next to a lone human once the auto-fill delay has passed.
func (mh *matchHandler) autoFillBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game != nil {
		return
	}
	if state.GetHumanPlayerCount() != 1 {
		state.LastSinglePlayerTick = 0
		return
	}
	if state.LastSinglePlayerTick == 0 {
		state.LastSinglePlayerTick = state.Tick
		logger.Debug("autoFillBots: Single player detected, starting auto-fill timer.")
	}
	if state.Tick-state.LastSinglePlayerTick < int64(state.Config.BotAutoFillDelaySeconds*matchTickRate) {
		return
	}

	added := false
	for i, seat := range state.seats() {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		agent := bot.NewAgent(identity.UserID, rand.New(rand.NewSource(state.rng.Int63())))
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		logger.Info("autoFillBots: Added bot %s (%s) to seat %d", agent.Name, identity.UserID, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
	}
	state.LastSinglePlayerTick = 0
}

// pendingSeats lists the game seats whose action the game is waiting on.
func pendingSeats(game *domain.Game) []int {
	switch game.Phase {
	case domain.PhaseDiscard:
		var seats []int
		for _, p := range game.Players {
			if len(p.Hand.Discarded()) == 0 {
				seats = append(seats, p.Seat)
			}
		}
		return seats
	case domain.PhasePlay:
		if game.Play != nil && !game.Play.Done() {
			return []int{game.Play.Turn()}
		}
	}
	return nil
}

// processBots lets the first pending agent-driven seat act after a random delay.
func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		state.BotWaitUntil = 0
		return
	}

	seat := -1
	for _, s := range pendingSeats(state.Game) {
		if _, ok := state.agentFor(s); ok {
			seat = s
			break
		}
	}
	if seat < 0 {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		minDelay, maxDelay := state.Config.BotMinDelaySeconds, state.Config.BotMaxDelaySeconds
		delay := minDelay
		if maxDelay > minDelay {
			delay += state.rng.Intn(maxDelay - minDelay + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay*matchTickRate)
		logger.Debug("processBots: Seat %d will act at tick %d (current %d)", seat, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, _ := state.agentFor(seat)
	mh.agentAct(state, dispatcher, logger, agent, seat)
}

// processTurnTimer acts for whoever the game has been waiting on past the turn duration.
func (mh *matchHandler) processTurnTimer(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.TurnDeadline == 0 || state.Tick < state.TurnDeadline {
		return
	}
	logger.Info("processTurnTimer: Turn timer expired in %s phase of game %s", state.Game.Phase, state.GameID)

	if state.Game.Phase == domain.PhaseShow {
		events, err := state.App.NextRound(state.Game)
		if err != nil {
			logger.Error("processTurnTimer: NextRound failed: %v", err)
			return
		}
		mh.dispatchEvents(state, dispatcher, logger, events)
		return
	}

	for _, seat := range pendingSeats(state.Game) {
		agent, ok := state.agentFor(seat)
		if !ok {
			agent = bot.NewAgent(state.Players[seat], rand.New(rand.NewSource(state.rng.Int63())))
		}
		mh.agentAct(state, dispatcher, logger, agent, seat)
		if state.Game == nil || state.Game.Phase == domain.PhasePlay {
			// One pegging move per expiry; the timer restarts for the next player.
			return
		}
	}
}

// agentAct performs the agent's discard or pegging move for seat.
func (mh *matchHandler) agentAct(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, agent *bot.Agent, seat int) {
	game := state.Game
	var (
		events []app.Event
		err    error
	)
	switch game.Phase {
	case domain.PhaseDiscard:
		var cards []domain.Card
		if cards, err = agent.Discard(game, seat); err == nil {
			events, err = state.App.Discard(game, seat, cards)
		}
	case domain.PhasePlay:
		var move bot.Move
		if move, err = agent.Play(game, seat); err == nil {
			if move.Go {
				events, err = state.App.SayGo(game, seat)
			} else {
				events, err = state.App.PlayCard(game, seat, move.Card)
			}
		}
	default:
		return
	}
	if err != nil {
		logger.Error("agentAct: Agent %s (seat %d) failed in %s phase: %v", agent.ID, seat, game.Phase, err)
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]interface{}, 0, state.Capacity)
	for i, userID := range state.seats() {
		if userID == "" {
			continue
		}
		displayName := userID
		if p, ok := state.Presences[userID]; ok {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userID); name != "" {
			displayName = name
		}

		player := map[string]interface{}{
			"user_id":      userID,
			"seat":         i,
			"display_name": displayName,
			"is_owner":     i == state.OwnerSeat,
			"is_bot":       isBotUserId(userID),
		}
		if gs := state.gameSeat(userID); gs >= 0 && state.Game != nil {
			player["game_seat"] = gs
			player["score"] = state.Game.Players[gs].Score
			player["cards_remaining"] = len(state.Game.Players[gs].Hand.Unplayed())
		}
		players = append(players, player)
	}

	phase := string(domain.PhaseLobby)
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	data, err := marshalStruct(map[string]interface{}{
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"phase":      phase,
		"game_id":    state.GameID,
		"players":    players,
	})
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpMatchState, data, nil, nil, true); err != nil {
		logger.Error("broadcastMatchState: Failed to broadcast: %v", err)
	}
}

// senderGameSeat resolves the sender of msg to a seat in the running game.
func (mh *matchHandler) senderGameSeat(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, action string) (int, bool) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("%s: Game not started.", action)
		mh.sendError(state, dispatcher, logger, senderID, errCodeConflict, "game not started")
		return -1, false
	}
	seat := state.gameSeat(senderID)
	if seat < 0 {
		logger.Warn("%s: User %s is not seated in game %s", action, senderID, state.GameID)
		mh.sendError(state, dispatcher, logger, senderID, errCodeForbidden, "not seated in this game")
		return -1, false
	}
	return seat, true
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := -1
	for i, seatUserId := range state.seats() {
		if seatUserId == senderID {
			senderSeat = i
			break
		}
	}

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, errCodeConflict, "game already running")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, errCodeForbidden, "only the owner can start")
		return
	}

	var (
		ids   []string
		names []string
	)
	for _, userID := range state.seats() {
		if userID == "" {
			continue
		}
		name := userID
		if p, ok := state.Presences[userID]; ok {
			name = p.GetUsername()
		} else if botName := bot.GetBotDisplayName(userID); botName != "" {
			name = botName
		}
		ids = append(ids, userID)
		names = append(names, name)
	}

	game, err := state.App.NewGame(names, state.Config.WinningScore)
	if err != nil {
		logger.Warn("StartGame: Cannot start with %d players: %v", len(ids), err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}
	events, err := state.App.StartRound(game)
	if err != nil {
		logger.Error("StartGame: Failed to deal: %v", err)
		return
	}

	state.Game = game
	state.Players = ids
	state.GameID = uuid.NewString()

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
	mh.dispatchEvents(state, dispatcher, logger, events)

	logger.Info("StartGame: Game %s started with %d players.", state.GameID, len(ids))
}

func (mh *matchHandler) handleDiscard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, ok := mh.senderGameSeat(state, dispatcher, logger, msg, "handleDiscard")
	if !ok {
		return
	}
	req, err := unmarshalStruct(msg.GetData())
	if err == nil {
		var cards []domain.Card
		if cards, err = requestCards(req, "cards"); err == nil {
			var events []app.Event
			if events, err = state.App.Discard(state.Game, seat, cards); err == nil {
				mh.dispatchEvents(state, dispatcher, logger, events)
				return
			}
		}
	}
	logger.Warn("handleDiscard: User %s (seat %d) failed to discard: %v", msg.GetUserId(), seat, err)
	mh.sendError(state, dispatcher, logger, msg.GetUserId(), errorCode(err), err.Error())
}

func (mh *matchHandler) handlePlayCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, ok := mh.senderGameSeat(state, dispatcher, logger, msg, "handlePlayCard")
	if !ok {
		return
	}
	req, err := unmarshalStruct(msg.GetData())
	if err == nil {
		var card domain.Card
		if card, err = requestCard(req, "card"); err == nil {
			var events []app.Event
			if events, err = state.App.PlayCard(state.Game, seat, card); err == nil {
				mh.dispatchEvents(state, dispatcher, logger, events)
				return
			}
		}
	}
	logger.Warn("handlePlayCard: User %s (seat %d) failed to play: %v. Hand: %v", msg.GetUserId(), seat, err, state.Game.Players[seat].Hand.Unplayed())
	mh.sendError(state, dispatcher, logger, msg.GetUserId(), errorCode(err), err.Error())
}

func (mh *matchHandler) handleGo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, ok := mh.senderGameSeat(state, dispatcher, logger, msg, "handleGo")
	if !ok {
		return
	}
	events, err := state.App.SayGo(state.Game, seat)
	if err != nil {
		logger.Warn("handleGo: User %s (seat %d) failed to say go: %v", msg.GetUserId(), seat, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleNextRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, ok := mh.senderGameSeat(state, dispatcher, logger, msg, "handleNextRound"); !ok {
		return
	}
	events, err := state.App.NextRound(state.Game)
	if err != nil {
		logger.Warn("handleNextRound: User %s failed to deal next round: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

// errorCode maps rejected actions to the code sent with OpGameError.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNotInPhase), errors.Is(err, domain.ErrOutOfTurn), errors.Is(err, domain.ErrPlayOver):
		return errCodeConflict
	default:
		return errCodeBadRequest
	}
}

// dispatchEvents sends app events to their recipients, then restarts the turn timer.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	ended := false
	for _, ev := range events {
		opCode, fields, err := encodeEvent(ev)
		if err != nil {
			logger.Warn("dispatchEvents: %v", err)
			continue
		}
		if ev.Kind == app.EventGameEnded {
			fields["game_id"] = state.GameID
			ended = true
		}
		data, err := marshalStruct(fields)
		if err != nil {
			logger.Error("dispatchEvents: Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, seat := range ev.Recipients {
				if seat < 0 || seat >= len(state.Players) {
					continue
				}
				if p, ok := state.Presences[state.Players[seat]]; ok {
					recipients = append(recipients, p)
				}
			}
			// Intended recipients that are not connected (bots) must not turn into a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}

		if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
			logger.Error("dispatchEvents: Failed to send %v: %v", ev.Kind, err)
		}
	}

	if ended {
		logger.Info("dispatchEvents: Game %s ended, scores %v", state.GameID, state.Game.Scores())
		for userID := range state.Bots {
			if !isBotUserId(userID) {
				delete(state.Bots, userID)
			}
		}
		// Players who left mid-game give up their seats.
		for i, userID := range state.seats() {
			if _, connected := state.Presences[userID]; userID != "" && !connected && !isBotUserId(userID) {
				state.Seats[i] = ""
			}
		}
		state.Game = nil
		state.Players = nil
		state.TurnDeadline = 0
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
		return
	}
	mh.resetTurnTimer(state)
	if string(state.Game.Phase) != state.labelPhase {
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) resetTurnTimer(state *MatchState) {
	if state.Game == nil || state.Config.TurnDurationSeconds <= 0 {
		state.TurnDeadline = 0
		return
	}
	state.TurnDeadline = state.Tick + int64(state.Config.TurnDurationSeconds*matchTickRate)
}

// sendError sends an OpGameError message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	data, err := marshalStruct(map[string]interface{}{"code": code, "message": message})
	if err != nil {
		logger.Error("Failed to marshal error: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := string(domain.PhaseLobby)
	open := state.GetOpenSeatsCount()
	if state.Game != nil {
		phase = string(state.Game.Phase)
		open = 0
	}
	label, err := marshalLabel(open, phase)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.labelPhase = phase
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
