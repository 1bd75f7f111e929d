package routes

import "github.com/tedsuo/rata"

const (
	AddItem = "ADD_ITEM"
	Status  = "STATUS"
)

var Routes = rata.Routes{
	{Path: "/v1/items", Method: "POST", Name: AddItem},
	{Path: "/v1/status", Method: "GET", Name: Status},
}
