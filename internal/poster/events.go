package poster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/handiism/nftposter/internal/model"
)

// LoadEvents reads a JSON array of events for batch mode:
//
//	[
//	  {"artist": "The Band", "date": "12/05/2025", "location": "Texas", "time": "night"},
//	  {"match": "Lions vs Bears", "date": "13/05/2025", "location": "Ohio", "mp3_path": "promo.mp3"}
//	]
func LoadEvents(path string) ([]model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse events %s: %w", path, err)
	}
	return events, nil
}
