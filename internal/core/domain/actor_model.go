package domain

const (
	ACTOR_ID_MASTER    = "master"
	ACTOR_ID_MQTT      = "mqtt"
	ACTOR_ID_DASHBOARD = "dashboard"
	ACTOR_ID_TRENDS    = "trends"
)

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
