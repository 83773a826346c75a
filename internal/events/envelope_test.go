package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// checkEnvelope reports the first v1 envelope field a consumer would reject.
func checkEnvelope(env EventEnvelope, name string) error {
	switch {
	case env.EventName != name:
		return fmt.Errorf("eventName %q, want %q", env.EventName, name)
	case env.EventVersion != 1:
		return fmt.Errorf("eventVersion %d, want 1", env.EventVersion)
	case env.EventID == "":
		return errors.New("eventId is empty")
	case env.PartitionKey == "":
		return errors.New("partitionKey is empty")
	case env.Sequence < 1:
		return fmt.Errorf("sequence %d is not positive", env.Sequence)
	}
	return nil
}

func decodeEnvelope(body []byte) (EventEnvelope, error) {
	var env EventEnvelope
	err := json.Unmarshal(body, &env)
	return env, err
}
