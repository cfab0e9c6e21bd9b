package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solr-indexer/logger"
)

// maxErrorBody caps how much of an engine error response is retained for
// logging.
const maxErrorBody = 4 << 10

// SolrDriver talks to the engine's JSON HTTP API. One core per index; the
// index name is the core name.
type SolrDriver struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

func NewSolrDriver(baseURL, user, password string, timeout time.Duration) *SolrDriver {
	return &SolrDriver{
		baseURL:    baseURL,
		user:       user,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubmitUpdate posts one update command stream to the core. Commit is part
// of the body, so the whole batch and its commit travel as one request.
func (d *SolrDriver) SubmitUpdate(ctx context.Context, core string, cmds UpdateCommands) error {
	if cmds.Empty() {
		return nil
	}

	body, err := EncodeUpdateCommands(cmds)
	if err != nil {
		return &DriverError{Op: "SubmitUpdate", Err: err.Error()}
	}

	if cmds.Debug {
		logger.Logger.Info("update body", "core", core, "body", string(body))
	}

	endpoint := fmt.Sprintf("%s/solr/%s/update", d.baseURL, url.PathEscape(core))
	if err := d.postJSON(ctx, "SubmitUpdate", endpoint, body, nil); err != nil {
		return err
	}
	return nil
}

// Select runs one query against the core.
func (d *SolrDriver) Select(ctx context.Context, core string, req SelectRequest) (*SelectResponse, error) {
	endpoint := fmt.Sprintf("%s/solr/%s/select?%s", d.baseURL, url.PathEscape(core), encodeSelectParams(req).Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &DriverError{Op: "Select", Err: err.Error()}
	}
	d.setAuth(httpReq)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, &DriverError{Op: "Select", Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DriverError{
			Op:   "Select",
			Err:  "engine returned " + resp.Status,
			Body: readErrorBody(resp.Body),
		}
	}

	var out SelectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &DriverError{Op: "Select", Err: "decode response: " + err.Error()}
	}
	return &out, nil
}

// Ping checks the core's health endpoint.
func (d *SolrDriver) Ping(ctx context.Context, core string) error {
	endpoint := fmt.Sprintf("%s/solr/%s/admin/ping?wt=json", d.baseURL, url.PathEscape(core))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &DriverError{Op: "Ping", Err: err.Error()}
	}
	d.setAuth(httpReq)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return &DriverError{Op: "Ping", Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DriverError{
			Op:   "Ping",
			Err:  "engine returned " + resp.Status,
			Body: readErrorBody(resp.Body),
		}
	}
	return nil
}

// UpdateSynonyms replaces entries in the core's managed synonym resource.
func (d *SolrDriver) UpdateSynonyms(ctx context.Context, core, resource string, synonyms map[string][]string) error {
	if len(synonyms) == 0 {
		return nil
	}

	body, err := json.Marshal(synonyms)
	if err != nil {
		return &DriverError{Op: "UpdateSynonyms", Err: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/solr/%s/schema/analysis/synonyms/%s",
		d.baseURL, url.PathEscape(core), url.PathEscape(resource))
	return d.postJSON(ctx, "UpdateSynonyms", endpoint, body, nil)
}

func (d *SolrDriver) postJSON(ctx context.Context, op, endpoint string, body []byte, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &DriverError{Op: op, Err: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	d.setAuth(httpReq)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return &DriverError{Op: op, Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DriverError{
			Op:   op,
			Err:  "engine returned " + resp.Status,
			Body: readErrorBody(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &DriverError{Op: op, Err: "decode response: " + err.Error()}
		}
	}
	return nil
}

func (d *SolrDriver) setAuth(req *http.Request) {
	if d.user != "" {
		req.SetBasicAuth(d.user, d.password)
	}
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(b))
}

func encodeSelectParams(req SelectRequest) url.Values {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("wt", "json")
	params.Set("start", strconv.Itoa(req.Start))
	params.Set("rows", strconv.Itoa(req.Rows))
	for _, fq := range req.FilterQueries {
		params.Add("fq", fq)
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	if len(req.FacetFields) > 0 {
		params.Set("facet", "true")
		for _, f := range req.FacetFields {
			params.Add("facet.field", f)
		}
	}
	if req.Spellcheck {
		params.Set("spellcheck", "true")
		params.Set("spellcheck.collate", "true")
	}
	return params
}
