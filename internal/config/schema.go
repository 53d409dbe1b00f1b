package config

const simSchemaURL = "sim.schema.json"

const simSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "rounds": {"type": "integer", "minimum": 0},
    "start_direction": {"type": "string", "enum": ["north", "south", "west", "east", "n", "s", "w", "e"]},
    "until_stable": {"type": "boolean"},
    "max_rounds": {"type": "integer", "minimum": 1},
    "workers": {"type": "integer", "minimum": 1, "maximum": 256},
    "glyphs": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "occupied": {"type": "string", "minLength": 1, "maxLength": 1},
        "empty": {"type": "string", "minLength": 1, "maxLength": 1}
      }
    },
    "snapshot_dir": {"type": "string"},
    "index_db": {"type": "string"},
    "observer": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "addr": {"type": "string"},
        "frame_delay_ms": {"type": "integer", "minimum": 0}
      }
    }
  }
}`
