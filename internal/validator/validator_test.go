package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgate/internal/issue"
)

func trackerIdentity(t *testing.T, raw string) issue.Identity {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	id := issue.FromURL(u)
	require.NotNil(t, id.Tracker)
	return id
}

func opaqueIdentity(t *testing.T, raw string) issue.Identity {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	id := issue.FromURL(u)
	require.Nil(t, id.Tracker)
	return id
}

func TestValidate_OpenIssue_Valid(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"state": "open", "title": "anything"}`))
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "", srv.Client())
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, Valid, verdict)
	require.Equal(t, "/repos/o/r/issues/1", gotPath)
	require.Equal(t, "inful/docgate", gotUA)
}

func TestValidate_ClosedIssue_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"state": "closed"}`))
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "", srv.Client())
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_PullRequestURL_QueriesPluralCollection(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"state": "open"}`))
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "", srv.Client())
	// URL grammar says "pull", state query says "pulls".
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/pull/42"))

	require.Equal(t, Valid, verdict)
	require.Equal(t, "/repos/o/r/pulls/42", gotPath)
}

func TestValidate_TokenConfigured_SendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"state": "open"}`))
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "sekrit", srv.Client())
	v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, "Bearer sekrit", gotAuth)
}

func TestValidate_TrackerNotFound_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "", srv.Client())
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_MalformedStateBody_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "", srv.Client())
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_MissingStateField_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "open"}`))
	}))
	defer srv.Close()

	v := NewLiveValidator(srv.URL, "", srv.Client())
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_TrackerAPIUnreachable_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	v := NewLiveValidator(srv.URL, "", nil)
	verdict := v.Validate(context.Background(), trackerIdentity(t, "https://github.com/o/r/issues/1"))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_OpaqueLink_ProbesWithHead(t *testing.T) {
	var gotMethod, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewLiveValidator("", "", srv.Client())
	verdict := v.Validate(context.Background(), opaqueIdentity(t, srv.URL+"/some/page"))

	require.Equal(t, Valid, verdict)
	require.Equal(t, http.MethodHead, gotMethod)
	require.Equal(t, "inful/docgate", gotUA)
}

func TestValidate_OpaqueLinkNoContent_StillValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	v := NewLiveValidator("", "", srv.Client())
	verdict := v.Validate(context.Background(), opaqueIdentity(t, srv.URL))

	require.Equal(t, Valid, verdict)
}

func TestValidate_OpaqueLinkGone_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewLiveValidator("", "", srv.Client())
	verdict := v.Validate(context.Background(), opaqueIdentity(t, srv.URL))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_OpaqueLinkServerError_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewLiveValidator("", "", srv.Client())
	verdict := v.Validate(context.Background(), opaqueIdentity(t, srv.URL))

	require.Equal(t, NoLongerValid, verdict)
}

func TestValidate_OpaqueLinkUnreachable_NoLongerValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	v := NewLiveValidator("", "", nil)
	verdict := v.Validate(context.Background(), opaqueIdentity(t, target))

	require.Equal(t, NoLongerValid, verdict)
}
