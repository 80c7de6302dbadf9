package room

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/beergame-sim/beergame-sim/game"
	"github.com/beergame-sim/beergame-sim/game/store"
)

// Status is the lifecycle phase of a room.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusRunning  Status = "RUNNING"
	StatusFinished Status = "FINISHED"
)

// Room sizing is fixed by the game: four teams of four play four instances.
const (
	RoomTeams     = 4
	RoomInstances = 4
	RoomSize      = RoomTeams * game.NumRoles
)

// persistTimeout bounds each finalization's storage write.
const persistTimeout = 5 * time.Second

// Room synchronizes one tournament: up to 16 participants across 4
// SimulationInstances. See the package comment for the concurrency model.
type Room struct {
	id    string
	rules game.Rules
	key   game.TournamentKey
	pub   Publisher
	st    store.Store // nil disables persistence

	cmds        chan func(*roomState)
	advanceDone chan advanceOutcome
	quit        chan struct{}

	// Test hooks, nil in production. advanceGate delays the advancement
	// report so tests can observe the advancing window; faultHook lets tests
	// inject a per-instance failure.
	advanceGate chan struct{}
	faultHook   func(instanceIdx int)
}

// roomState is owned exclusively by the coordinating goroutine.
type roomState struct {
	status      Status
	teams       map[string]map[game.Role]string // teamID -> role -> participant
	teamOrder   []string
	joinOrder   []string
	assignments map[string]Assignment
	instances   [RoomInstances]*game.SimulationInstance
	barrier     *OrderBarrier
	advancing   bool
	snapshot    Snapshot
}

type advanceOutcome struct {
	errs [RoomInstances]error // nil entries advanced cleanly or were skipped
	ran  [RoomInstances]bool  // which instances actually advanced
}

// New creates a room and starts its coordinating goroutine. pub must not be
// nil (use NopPublisher); st may be nil to disable persistence.
func New(id string, rules game.Rules, key game.TournamentKey, pub Publisher, st store.Store) *Room {
	r := &Room{
		id:          id,
		rules:       rules,
		key:         key,
		pub:         pub,
		st:          st,
		cmds:        make(chan func(*roomState)),
		advanceDone: make(chan advanceOutcome),
		quit:        make(chan struct{}),
	}
	go r.loop()
	return r
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

func (r *Room) loop() {
	st := &roomState{
		status:      StatusWaiting,
		teams:       make(map[string]map[game.Role]string),
		assignments: make(map[string]Assignment),
	}
	r.refreshSnapshot(st)
	for {
		select {
		case fn := <-r.cmds:
			fn(st)
		case out := <-r.advanceDone:
			r.finalize(st, out)
		case <-r.quit:
			return
		}
	}
}

// do runs fn inside the coordinating goroutine and waits for it.
func (r *Room) do(fn func(*roomState)) error {
	done := make(chan struct{})
	wrapped := func(st *roomState) {
		fn(st)
		close(done)
	}
	select {
	case r.cmds <- wrapped:
	case <-r.quit:
		return game.Errorf(game.CodeRoomClosed, "room %s is closed", r.id)
	}
	select {
	case <-done:
		return nil
	case <-r.quit:
		return game.Errorf(game.CodeRoomClosed, "room %s is closed", r.id)
	}
}

// Close stops the coordinating goroutine. In-flight advancement results are
// dropped; Close is for room teardown, not graceful drain.
func (r *Room) Close() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
}

// Join adds a participant to a pre-shuffle team slot. The join that completes
// the room triggers the shuffle and starts the tournament; if the room cannot
// start, that join is rejected and its slot released.
func (r *Room) Join(teamID string, role game.Role, participantID string) error {
	var result error
	err := r.do(func(st *roomState) {
		result = r.join(st, teamID, role, participantID)
	})
	if err != nil {
		return err
	}
	return result
}

func (r *Room) join(st *roomState, teamID string, role game.Role, participantID string) error {
	if st.status != StatusWaiting {
		return game.Errorf(game.CodeRoomNotWaiting, "room %s is %s", r.id, st.status)
	}
	if !role.Valid() {
		return game.Errorf(game.CodeBadRole, "invalid role %d", int(role))
	}
	if participantID == "" {
		return game.Errorf(game.CodeBadRequest, "participant id is required")
	}
	for _, members := range st.teams {
		for _, id := range members {
			if id == participantID {
				return game.Errorf(game.CodeAlreadyJoined,
					"participant %s is already in room %s", participantID, r.id)
			}
		}
	}

	members, ok := st.teams[teamID]
	if !ok {
		if len(st.teams) == RoomTeams {
			return game.Errorf(game.CodeRoomFull, "room %s already has %d teams", r.id, RoomTeams)
		}
		members = make(map[game.Role]string, game.NumRoles)
		st.teams[teamID] = members
		st.teamOrder = append(st.teamOrder, teamID)
	}
	if _, taken := members[role]; taken {
		return game.Errorf(game.CodeRoleTaken, "role %s is already taken on team %s", role, teamID)
	}

	members[role] = participantID
	st.joinOrder = append(st.joinOrder, participantID)
	logrus.Infof("room %s: %s joined team %s as %s", r.id, participantID, teamID, role)
	r.pub.Publish(StateEvent{RoomID: r.id, Kind: EventJoinAccepted, ParticipantID: participantID})

	if len(st.joinOrder) == RoomSize {
		if err := r.start(st); err != nil {
			// Release the slot of the join that failed to complete the room.
			delete(members, role)
			st.joinOrder = st.joinOrder[:len(st.joinOrder)-1]
			return err
		}
	}
	r.refreshSnapshot(st)
	return nil
}

// start runs the one-shot shuffle and brings the four instances to life.
func (r *Room) start(st *roomState) error {
	teams := make([]Team, 0, RoomTeams)
	for _, teamID := range st.teamOrder {
		teams = append(teams, Team{ID: teamID, Members: st.teams[teamID]})
	}
	assignments, err := Shuffle(teams)
	if err != nil {
		return err
	}

	demand := game.NewDemandSchedule(r.rules,
		game.NewPartitionedRNG(r.key).ForSubsystem(game.SubsystemDemand))
	logrus.Infof("room %s: starting with festive weeks %v", r.id, demand.FestiveWeeks())

	for i := 0; i < RoomInstances; i++ {
		st.instances[i] = game.NewSimulationInstance(r.instanceID(i), r.rules, demand)
	}
	for _, asg := range assignments {
		st.assignments[asg.ParticipantID] = asg
	}
	st.barrier = NewOrderBarrier(RoomSize)
	st.status = StatusRunning

	r.persist(st, nil)
	r.pub.Publish(StateEvent{RoomID: r.id, Kind: EventRoomStarted, Week: 1})
	return nil
}

func (r *Room) instanceID(i int) string {
	return fmt.Sprintf("%s-instance-%d", r.id, i)
}

// SubmitOrder records one participant's order for the current week. The
// submission that completes the set flips the advancing flag and triggers
// parallel advancement; submissions during advancement are rejected.
func (r *Room) SubmitOrder(participantID string, amount int) error {
	var result error
	err := r.do(func(st *roomState) {
		result = r.submitOrder(st, participantID, amount)
	})
	if err != nil {
		return err
	}
	return result
}

func (r *Room) submitOrder(st *roomState, participantID string, amount int) error {
	if st.status != StatusRunning {
		return game.Errorf(game.CodeNotRunning, "room %s is %s", r.id, st.status)
	}
	if st.advancing {
		return game.Errorf(game.CodeAdvancementInProgress,
			"room %s is advancing the week", r.id)
	}
	asg, ok := st.assignments[participantID]
	if !ok {
		return game.Errorf(game.CodeUnknownParticipant,
			"participant %s has no assignment in room %s", participantID, r.id)
	}
	if st.instances[asg.Instance].Finished() {
		return game.Errorf(game.CodeInstanceFinished,
			"instance %s is out of play", st.instances[asg.Instance].ID)
	}

	complete, err := st.barrier.Submit(participantID, amount)
	if err != nil {
		return err
	}
	r.pub.Publish(StateEvent{
		RoomID: r.id, Kind: EventOrderAccepted, Week: r.currentWeek(st),
		ParticipantID: participantID, InstanceID: st.instances[asg.Instance].ID,
	})

	if complete {
		// Same critical section as the count check: no concurrent submission
		// can double-trigger because only the coordinator runs this code.
		// The snapshot must be rebuilt before the advancement goroutine
		// starts mutating the instances.
		st.advancing = true
		tasks := r.buildTasks(st)
		r.refreshSnapshot(st)
		go r.runAdvancement(tasks)
		return nil
	}
	r.refreshSnapshot(st)
	return nil
}

type advanceTask struct {
	idx      int
	instance *game.SimulationInstance
	orders   map[game.Role]int
}

// buildTasks groups the collected orders by instance: each active instance
// receives exactly one order per role from its assignment.
func (r *Room) buildTasks(st *roomState) []advanceTask {
	byInstance := make(map[int]map[game.Role]int, RoomInstances)
	for participantID, amount := range st.barrier.Orders() {
		asg := st.assignments[participantID]
		if byInstance[asg.Instance] == nil {
			byInstance[asg.Instance] = make(map[game.Role]int, game.NumRoles)
		}
		byInstance[asg.Instance][asg.Role] = amount
	}
	tasks := make([]advanceTask, 0, RoomInstances)
	for i := 0; i < RoomInstances; i++ {
		if st.instances[i].Finished() {
			continue
		}
		tasks = append(tasks, advanceTask{idx: i, instance: st.instances[i], orders: byInstance[i]})
	}
	return tasks
}

// runAdvancement advances every active instance concurrently and reports the
// outcome back to the coordinator. A failure or panic in one instance is
// isolated to its own slot and never blocks the join.
func (r *Room) runAdvancement(tasks []advanceTask) {
	var out advanceOutcome
	var eg errgroup.Group
	for _, task := range tasks {
		task := task
		out.ran[task.idx] = true
		eg.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					out.errs[task.idx] = game.Errorf(game.CodeInternal,
						"advancement of %s panicked: %v", task.instance.ID, p)
				}
			}()
			if r.faultHook != nil {
				r.faultHook(task.idx)
			}
			if _, err := task.instance.AdvanceWeek(task.orders); err != nil {
				out.errs[task.idx] = game.WrapErr(game.CodeInternal, err,
					"advancement of %s failed", task.instance.ID)
			}
			return nil // errors stay in their slot; never cancel siblings
		})
	}
	_ = eg.Wait()
	if r.advanceGate != nil {
		<-r.advanceGate
	}
	select {
	case r.advanceDone <- out:
	case <-r.quit:
	}
}

// finalize runs in the coordinator after the advancement join: fault handling,
// persistence, barrier reset, status resolution, and the flag clear. Only
// after this do participants submit next-week orders.
func (r *Room) finalize(st *roomState, out advanceOutcome) {
	faulted := false
	for i := 0; i < RoomInstances; i++ {
		if out.errs[i] == nil {
			continue
		}
		faulted = true
		st.instances[i].MarkFaulted()
		logrus.Errorf("room %s: %v", r.id, out.errs[i])
		r.pub.Publish(StateEvent{
			RoomID: r.id, Kind: EventInstanceFaulted,
			Week: st.instances[i].Week, InstanceID: st.instances[i].ID,
		})
	}

	r.persist(st, &out)

	active := 0
	for _, inst := range st.instances {
		if !inst.Finished() {
			active++
		}
	}
	st.barrier.Reset(active * game.NumRoles)
	st.advancing = false

	if active == 0 {
		st.status = StatusFinished
		r.pub.Publish(StateEvent{RoomID: r.id, Kind: EventRoomFinished, Week: r.currentWeek(st)})
		logrus.Infof("room %s: tournament finished", r.id)
	} else {
		r.pub.Publish(StateEvent{RoomID: r.id, Kind: EventWeekAdvanced, Week: r.currentWeek(st)})
		if faulted {
			logrus.Warnf("room %s: week advanced degraded, %d instances remain", r.id, active)
		}
	}
	r.refreshSnapshot(st)
}

// persist writes instance rows and, when an outcome is given, the turns of the
// instances that just advanced. Storage failure degrades to a log line; the
// game itself lives in memory.
func (r *Room) persist(st *roomState, out *advanceOutcome) {
	if r.st == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var turns []store.TurnRecord
	for i, inst := range st.instances {
		if err := r.st.UpsertInstance(ctx, instanceRecord(r.id, inst)); err != nil {
			logrus.Warnf("room %s: persist instance %s: %v", r.id, inst.ID, err)
		}
		if out != nil && out.ran[i] && out.errs[i] == nil {
			for _, role := range game.AllRoles {
				turns = append(turns, turnRecord(inst.ID, role, inst.Ledger(role).LastTurn))
			}
		}
	}
	if err := r.st.AppendTurns(ctx, turns); err != nil {
		logrus.Warnf("room %s: persist turns: %v", r.id, err)
	}
}

// currentWeek is the week the next advancement will play: the minimum week of
// the still-active instances (they advance in lockstep, so normally equal).
func (r *Room) currentWeek(st *roomState) int {
	week := 0
	for _, inst := range st.instances {
		if inst == nil {
			return 0
		}
		if !inst.Finished() && (week == 0 || inst.Week < week) {
			week = inst.Week
		}
	}
	if week == 0 {
		// Everything finished; report the horizon.
		return r.rules.HorizonWeeks
	}
	return week
}

// Status returns the room snapshot. Safe to call at any time; during an
// advancement the last finalized snapshot is served.
func (r *Room) Status() (Snapshot, error) {
	var snap Snapshot
	err := r.do(func(st *roomState) {
		snap = st.snapshot.clone()
	})
	return snap, err
}

// Results aggregates final scores. Only valid once the room is FINISHED.
func (r *Room) Results() (Results, error) {
	var res Results
	var result error
	err := r.do(func(st *roomState) {
		if st.status != StatusFinished {
			result = game.Errorf(game.CodeRoomNotFinished, "room %s is %s", r.id, st.status)
			return
		}
		res = aggregateResults(st.joinOrder, st.teamOrder, st.assignments,
			func(asg Assignment) float64 {
				return st.instances[asg.Instance].Ledger(asg.Role).CumulativeCost
			})
	})
	if err != nil {
		return Results{}, err
	}
	return res, result
}

// refreshSnapshot rebuilds the cached snapshot after a finalized mutation.
func (r *Room) refreshSnapshot(st *roomState) {
	snap := Snapshot{
		RoomID:    r.id,
		Status:    st.status,
		Week:      r.currentWeek(st),
		Advancing: st.advancing,
	}
	if st.barrier != nil {
		snap.OrdersSoFar = st.barrier.Count()
	}
	if st.instances[0] != nil {
		snap.Instances = make([]InstanceView, 0, RoomInstances)
		for _, inst := range st.instances {
			snap.Instances = append(snap.Instances, InstanceView{
				ID: inst.ID, Week: inst.Week, Status: inst.Status,
			})
		}
	}
	snap.Participants = make([]ParticipantView, 0, len(st.joinOrder))
	for _, id := range st.joinOrder {
		view := ParticipantView{ParticipantID: id}
		if asg, ok := st.assignments[id]; ok {
			ledger := st.instances[asg.Instance].Ledger(asg.Role)
			view.TeamID = asg.TeamID
			view.InstanceID = st.instances[asg.Instance].ID
			view.Role = asg.Role
			view.Inventory = ledger.Inventory
			view.Backorder = ledger.Backorder
			view.CumulativeCost = ledger.CumulativeCost
			view.LastTurn = ledger.LastTurn
			view.OrderSubmitted = st.barrier != nil && st.barrier.Has(id)
		} else {
			// Pre-shuffle: report the seat the participant joined with.
			for teamID, members := range st.teams {
				for role, member := range members {
					if member == id {
						view.TeamID = teamID
						view.Role = role
					}
				}
			}
		}
		snap.Participants = append(snap.Participants, view)
	}
	st.snapshot = snap
}

// instanceRecord converts an instance to its durable form.
func instanceRecord(roomID string, inst *game.SimulationInstance) store.InstanceRecord {
	rec := store.InstanceRecord{
		ID:      inst.ID,
		RoomID:  roomID,
		Week:    inst.Week,
		Status:  string(inst.Status),
		Ledgers: make([]store.LedgerRecord, 0, game.NumRoles),
	}
	for _, role := range game.AllRoles {
		l := inst.Ledger(role)
		rec.Ledgers = append(rec.Ledgers, store.LedgerRecord{
			Role:           role.String(),
			Inventory:      l.Inventory,
			Backorder:      l.Backorder,
			CumulativeCost: l.CumulativeCost,
			OrderSlots:     l.Orders.Slots(),
			ShipmentSlots:  l.Shipments.Slots(),
		})
	}
	return rec
}

// turnRecord converts a completed turn to its durable form.
func turnRecord(instanceID string, role game.Role, turn game.TurnSnapshot) store.TurnRecord {
	return store.TurnRecord{
		InstanceID:       instanceID,
		Role:             role.String(),
		Week:             turn.Week,
		OrderReceived:    turn.OrderReceived,
		ShipmentReceived: turn.ShipmentReceived,
		ShipmentSent:     turn.ShipmentSent,
		OrderPlaced:      turn.OrderPlaced,
		Inventory:        turn.Inventory,
		Backorder:        turn.Backorder,
		WeekCost:         turn.WeekCost,
		CumulativeCost:   turn.CumulativeCost,
	}
}
