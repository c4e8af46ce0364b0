package usecase

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mdblp/shape-logs/schema"
)

const kindColumn = "kind"

// logsToRecords flattens the logs into generic records, each one tagged with its kind
func logsToRecords(logs *schema.UserLogs) ([]map[string]interface{}, error) {
	records := make([]map[string]interface{}, 0, logs.Count())
	appendKind := func(kind schema.LogKind, list interface{}) error {
		raw, err := json.Marshal(list)
		if err != nil {
			return err
		}
		var kindRecords []map[string]interface{}
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		if err := decoder.Decode(&kindRecords); err != nil {
			return err
		}
		for _, record := range kindRecords {
			record[kindColumn] = string(kind)
			records = append(records, record)
		}
		return nil
	}
	lists := []struct {
		kind schema.LogKind
		list interface{}
	}{
		{schema.FoodKind, logs.FoodLogs},
		{schema.WaterKind, logs.WaterLogs},
		{schema.WeightKind, logs.WeightLogs},
		{schema.ExerciseKind, logs.ExerciseLogs},
		{schema.SleepKind, logs.SleepLogs},
	}
	for _, l := range lists {
		if err := appendKind(l.kind, l.list); err != nil {
			return nil, fmt.Errorf("flatten %s logs: %w", l.kind, err)
		}
	}
	return records, nil
}

// logsToCsv writes one row per log. Columns are the union of the fields of every kind,
// "kind" first then sorted by name.
func logsToCsv(logs *schema.UserLogs) (*bytes.Buffer, error) {
	records, err := logsToRecords(logs)
	if err != nil {
		return nil, err
	}

	headersMap := make(map[string]struct{})
	for _, record := range records {
		for _, header := range extractHeaders(record) {
			headersMap[header] = struct{}{}
		}
	}
	delete(headersMap, kindColumn)
	headers := make([]string, 0, len(headersMap)+1)
	for header := range headersMap {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	headers = append([]string{kindColumn}, headers...)

	csvBuffer := &bytes.Buffer{}
	csvWriter := csv.NewWriter(csvBuffer)
	if err := csvWriter.Write(headers); err != nil {
		return nil, err
	}
	row := make([]string, len(headers))
	for _, record := range records {
		for i, header := range headers {
			value, err := getValue(record, strings.Split(header, "."))
			if err != nil {
				return nil, err
			}
			row[i] = value
		}
		if err := csvWriter.Write(row); err != nil {
			return nil, err
		}
	}
	csvWriter.Flush()
	return csvBuffer, csvWriter.Error()
}

func extractHeaders(record map[string]interface{}) []string {
	headers := make([]string, 0, len(record))
	for key, value := range record {
		if subRecord, ok := value.(map[string]interface{}); ok {
			for _, subHeader := range extractHeaders(subRecord) {
				headers = append(headers, key+"."+subHeader)
			}
			continue
		}
		headers = append(headers, key)
	}
	return headers
}

func getValue(record map[string]interface{}, parts []string) (string, error) {
	value, ok := record[parts[0]]
	if !ok || value == nil {
		return "", nil
	}
	if len(parts) == 1 {
		return fmt.Sprint(value), nil
	}
	subRecord, ok := value.(map[string]interface{})
	if !ok {
		return "", errors.New("subobject not found")
	}
	return getValue(subRecord, parts[1:])
}
