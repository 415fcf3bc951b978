package handlers

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chatcall/internal/handlers/dto"
	ws "chatcall/internal/websocket"
)

// callPayload собирает сигнальный payload с произвольными полями,
// которые реле должно пересылать непрозрачно
func callPayload(t *testing.T, addr dto.CallAddress, extra map[string]interface{}) map[string]interface{} {
	t.Helper()

	payload := map[string]interface{}{"roomId": addr.RoomID}
	if addr.Target != uuid.Nil {
		payload["target"] = addr.Target
	}
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}

func setupCallRoom(t *testing.T) (*testEnv, *ws.Client, *ws.Client, uuid.UUID) {
	t.Helper()

	env := newTestEnv(t)
	alice := env.connect(t, "alice")
	bob := env.connect(t, "bob")

	room := env.createRoom(t, alice, "general")
	env.joinRoom(t, alice, room.ID)
	env.joinRoom(t, bob, room.ID)
	drain(alice)
	drain(bob)

	return env, alice, bob, room.ID
}

func TestCallInitiateExcludesCaller(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	require.NoError(t, env.send(t, alice, ws.EventCallInitiate,
		callPayload(t, dto.CallAddress{RoomID: roomID}, nil)))

	evt := recvEvent(t, bob)
	require.Equal(t, ws.EventCallInitiate, evt.Type)
	require.Equal(t, alice.UserID, evt.SenderID)
	require.Equal(t, "alice", evt.SenderName)

	requireNoEvent(t, alice)

	caller, active := env.dispatcher.calls.ActiveCaller(roomID)
	require.True(t, active)
	require.Equal(t, alice.UserID, caller)
}

func TestAnswerIsUnicastToTarget(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)
	eve := env.connect(t, "eve")
	env.joinRoom(t, eve, roomID)
	drain(alice)
	drain(bob)
	drain(eve)

	require.NoError(t, env.send(t, bob, ws.EventCallAnswer,
		callPayload(t, dto.CallAddress{RoomID: roomID, Target: alice.UserID}, map[string]interface{}{
			"sdp": "v=0 answer",
		})))

	evt := recvEvent(t, alice)
	require.Equal(t, ws.EventCallAnswer, evt.Type)
	require.Equal(t, bob.UserID, evt.SenderID)

	// Payload переслан без изменений
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(evt.Data, &payload))
	require.Equal(t, "v=0 answer", payload["sdp"])

	requireNoEvent(t, bob)
	requireNoEvent(t, eve)
}

func TestOfferRequiresTarget(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	err := env.send(t, alice, ws.EventCallOffer,
		callPayload(t, dto.CallAddress{RoomID: roomID}, map[string]interface{}{"sdp": "v=0"}))
	require.ErrorIs(t, err, ws.ErrMissingTarget)
	requireNoEvent(t, bob)
}

func TestCallSignalRequiresSubscribedRoom(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	// eve подключена, но комнату не присоединяла
	eve := env.connect(t, "eve")
	err := env.send(t, eve, ws.EventCallInitiate,
		callPayload(t, dto.CallAddress{RoomID: roomID}, nil))
	require.ErrorIs(t, err, ws.ErrNotRoomMember)
	requireNoEvent(t, alice)
	requireNoEvent(t, bob)
}

// Кандидаты пересылаются сразу, независимо от состояния переговоров на
// принимающей стороне: буферизация до remote description — забота клиента
func TestIceCandidatesForwardedImmediately(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.send(t, alice, ws.EventIceCandidate,
			callPayload(t, dto.CallAddress{RoomID: roomID, Target: bob.UserID}, map[string]interface{}{
				"candidate": "candidate:1 1 UDP 2122252543 192.0.2.1 54400 typ host",
			})))
	}

	for i := 0; i < 3; i++ {
		evt := recvEvent(t, bob)
		require.Equal(t, ws.EventIceCandidate, evt.Type)
		require.Equal(t, alice.UserID, evt.SenderID)
	}
}

func TestCallEndReachesWholeRoom(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	require.NoError(t, env.send(t, alice, ws.EventCallInitiate,
		callPayload(t, dto.CallAddress{RoomID: roomID}, nil)))
	drain(bob)

	require.NoError(t, env.send(t, alice, ws.EventCallEnd,
		callPayload(t, dto.CallAddress{RoomID: roomID}, nil)))

	require.Equal(t, ws.EventCallEnd, recvEvent(t, alice).Type)
	require.Equal(t, ws.EventCallEnd, recvEvent(t, bob).Type)

	_, active := env.dispatcher.calls.ActiveCaller(roomID)
	require.False(t, active)
}

// Отключение инициатора без call-end: оставшиеся участники получают
// уведомление, состояние звонка снимается
func TestCallerDisconnectNotifiesPeers(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	require.NoError(t, env.send(t, alice, ws.EventCallInitiate,
		callPayload(t, dto.CallAddress{RoomID: roomID}, nil)))
	drain(bob)

	roomIDs := env.hub.Unregister(alice)
	env.dispatcher.HandleDisconnect(alice, roomIDs)

	evt := recvEvent(t, bob)
	require.Equal(t, ws.EventCallEnd, evt.Type)
	require.Equal(t, alice.UserID, evt.SenderID)

	_, active := env.dispatcher.calls.ActiveCaller(roomID)
	require.False(t, active)
}

// Отключение участника, который звонок не начинал, чужое состояние не трогает
func TestNonCallerDisconnectKeepsCall(t *testing.T) {
	env, alice, bob, roomID := setupCallRoom(t)

	require.NoError(t, env.send(t, alice, ws.EventCallInitiate,
		callPayload(t, dto.CallAddress{RoomID: roomID}, nil)))
	drain(bob)

	roomIDs := env.hub.Unregister(bob)
	env.dispatcher.HandleDisconnect(bob, roomIDs)

	requireNoEvent(t, alice)

	caller, active := env.dispatcher.calls.ActiveCaller(roomID)
	require.True(t, active)
	require.Equal(t, alice.UserID, caller)
}
