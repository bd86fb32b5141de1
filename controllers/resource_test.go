package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"octofit/db"
	"octofit/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mountable interface {
	Name() string
	List(c *gin.Context)
	Create(c *gin.Context)
	Retrieve(c *gin.Context)
	Update(c *gin.Context)
	PartialUpdate(c *gin.Context)
	Delete(c *gin.Context)
}

func newEngine(resources ...mountable) *gin.Engine {
	r := gin.New()
	for _, res := range resources {
		g := r.Group("/api/" + res.Name())
		g.GET("/", res.List)
		g.POST("/", res.Create)
		g.GET("/:id/", res.Retrieve)
		g.PUT("/:id/", res.Update)
		g.PATCH("/:id/", res.PartialUpdate)
		g.DELETE("/:id/", res.Delete)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const tonyJSON = `{"name":"Tony Stark","email":"tony.stark@marvel.com","team":"Team Marvel","age":45,"fitness_level":"Advanced","total_points":2500}`

func usersEngine(enforce bool) (*gin.Engine, db.Stores) {
	stores := db.NewMemoryStores()
	return newEngine(NewResource[models.User](models.UsersCollection, stores.Users, enforce)), stores
}

func TestCreateUserReturnsStringID(t *testing.T) {
	engine, _ := usersEngine(false)

	w := do(t, engine, http.MethodPost, "/api/users/", tonyJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeObject(t, w)
	id, ok := body["id"].(string)
	require.True(t, ok, "id is a string")
	assert.Len(t, id, 24)
	assert.Equal(t, "tony.stark@marvel.com", body["email"])
	assert.EqualValues(t, 2500, body["total_points"])

	w = do(t, engine, http.MethodGet, "/api/users/"+id+"/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decodeObject(t, w)["id"])
}

func TestListIsEmptyArrayThenOrdered(t *testing.T) {
	engine, _ := usersEngine(false)

	w := do(t, engine, http.MethodGet, "/api/users/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	do(t, engine, http.MethodPost, "/api/users/", tonyJSON)
	do(t, engine, http.MethodPost, "/api/users/", `{"name":"Steve Rogers","email":"steve.rogers@marvel.com","team":"Team Marvel","age":100,"fitness_level":"Expert"}`)

	w = do(t, engine, http.MethodGet, "/api/users/", "")
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "Tony Stark", users[0]["name"])
	assert.Equal(t, "Steve Rogers", users[1]["name"])
	assert.EqualValues(t, 0, users[1]["total_points"])
}

func TestCreateUserValidation(t *testing.T) {
	engine, stores := usersEngine(false)

	w := do(t, engine, http.MethodPost, "/api/users/", `{"name":"Tony Stark","email":"not-an-email","age":"old","fitness_level":"Advanced"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, []string{"This field is required."}, body.Fields["team"])
	assert.Equal(t, []string{"Enter a valid email address."}, body.Fields["email"])
	assert.Equal(t, []string{"A valid integer is required."}, body.Fields["age"])

	w = do(t, engine, http.MethodPost, "/api/users/", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.NonFieldErrors)

	users, err := stores.Users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDuplicateEmailIsConflict(t *testing.T) {
	engine, stores := usersEngine(false)

	require.Equal(t, http.StatusCreated, do(t, engine, http.MethodPost, "/api/users/", tonyJSON).Code)
	w := do(t, engine, http.MethodPost, "/api/users/", tonyJSON)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"conflict","fields":{"email":["user with this email already exists."]}}`, w.Body.String())

	n, err := stores.Users.CountBy(context.Background(), "email", "tony.stark@marvel.com", primitive.NilObjectID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnforceUniquenessIsValidationError(t *testing.T) {
	engine, _ := usersEngine(true)

	require.Equal(t, http.StatusCreated, do(t, engine, http.MethodPost, "/api/users/", tonyJSON).Code)
	w := do(t, engine, http.MethodPost, "/api/users/", tonyJSON)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"email":["user with this email already exists."]}}`, w.Body.String())

	id := decodeObject(t, do(t, engine, http.MethodPost, "/api/users/",
		`{"name":"Clark Kent","email":"clark.kent@dc.com","team":"Team DC","age":35,"fitness_level":"Expert"}`))["id"].(string)
	w = do(t, engine, http.MethodPatch, "/api/users/"+id+"/", `{"age":36}`)
	assert.Equal(t, http.StatusOK, w.Code, "a record never conflicts with itself")

	w = do(t, engine, http.MethodPatch, "/api/users/"+id+"/", `{"email":"tony.stark@marvel.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownAndMalformedIDsAreNotFound(t *testing.T) {
	engine, _ := usersEngine(false)
	unknown := primitive.NewObjectID().Hex()

	for _, path := range []string{"/api/users/" + unknown + "/", "/api/users/not-an-id/"} {
		assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodGet, path, "").Code, path)
		assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodDelete, path, "").Code, path)
		assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodPut, path, tonyJSON).Code, path)
		assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodPatch, path, `{"age":1}`).Code, path)
	}
	assert.JSONEq(t, `{"error":"not found"}`, do(t, engine, http.MethodGet, "/api/users/"+unknown+"/", "").Body.String())
}

func TestUpdateAndPartialUpdate(t *testing.T) {
	engine, _ := usersEngine(false)
	id := decodeObject(t, do(t, engine, http.MethodPost, "/api/users/", tonyJSON))["id"].(string)
	path := "/api/users/" + id + "/"

	w := do(t, engine, http.MethodPatch, path, `{"total_points":2600,"id":"ignored"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeObject(t, w)
	assert.Equal(t, id, body["id"])
	assert.EqualValues(t, 2600, body["total_points"])
	assert.Equal(t, "Tony Stark", body["name"])

	w = do(t, engine, http.MethodPut, path, `{"name":"Iron Man"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")

	w = do(t, engine, http.MethodPut, path, `{"name":"Iron Man","email":"tony.stark@marvel.com","team":"Avengers","age":46,"fitness_level":"Expert"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeObject(t, w)
	assert.Equal(t, "Iron Man", body["name"])
	assert.EqualValues(t, 0, body["total_points"], "a full update resets omitted optional fields")

	w = do(t, engine, http.MethodGet, path, "")
	assert.Equal(t, "Avengers", decodeObject(t, w)["team"])
}

func TestDeleteThenGone(t *testing.T) {
	engine, _ := usersEngine(false)
	id := decodeObject(t, do(t, engine, http.MethodPost, "/api/users/", tonyJSON))["id"].(string)

	w := do(t, engine, http.MethodDelete, "/api/users/"+id+"/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodGet, "/api/users/"+id+"/", "").Code)
}

func TestTeamMembersCount(t *testing.T) {
	stores := db.NewMemoryStores()
	engine := newEngine(NewResource[models.Team](models.TeamsCollection, stores.Teams, false))

	w := do(t, engine, http.MethodPost, "/api/teams/", `{"name":"Team Marvel","description":"Marvel Universe Team","members":["a@x.com","b@x.com"],"created_at":"2025-01-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decodeObject(t, w)["members_count"])

	w = do(t, engine, http.MethodPost, "/api/teams/", `{"name":"Team DC","description":"DC Universe Team","created_at":"2025-01-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeObject(t, w)
	assert.EqualValues(t, 0, body["members_count"])
	assert.Equal(t, []interface{}{}, body["members"])
}

func TestActivityDistanceIsNullable(t *testing.T) {
	stores := db.NewMemoryStores()
	engine := newEngine(NewResource[models.Activity](models.ActivitiesCollection, stores.Activities, false))

	w := do(t, engine, http.MethodPost, "/api/activities/", `{"user_email":"tony.stark@marvel.com","user_name":"Tony Stark","activity_type":"Yoga","duration_minutes":50,"calories_burned":300,"date":"2025-02-01","distance_km":null}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeObject(t, w)
	assert.Nil(t, body["distance_km"])

	w = do(t, engine, http.MethodPost, "/api/activities/", `{"user_email":"tony.stark@marvel.com","user_name":null,"activity_type":"Yoga","duration_minutes":50,"calories_burned":300,"date":"2025-02-01"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This field may not be null.")
}

type failingUsers struct {
	db.Collection[models.User]
}

func (failingUsers) List(ctx context.Context) ([]models.User, error) {
	return nil, errors.New("socket closed")
}

func TestStorageFailureIsInternalError(t *testing.T) {
	engine := newEngine(NewResource[models.User](models.UsersCollection, failingUsers{}, false))

	w := do(t, engine, http.MethodGet, "/api/users/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "socket closed")
}

func TestCreateUserReportsEveryMistypedField(t *testing.T) {
	engine, _ := usersEngine(false)

	w := do(t, engine, http.MethodPost, "/api/users/", `{"name":"Tony Stark","email":"tony.stark@marvel.com","team":7,"age":"twenty","fitness_level":"Advanced","total_points":"lots"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{
		"team":["Not a valid string."],
		"age":["A valid integer is required."],
		"total_points":["A valid integer is required."]
	}}`, w.Body.String())
}
