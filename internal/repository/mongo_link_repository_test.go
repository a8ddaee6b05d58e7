package repository

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestAliasSwapFilter(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		want     bson.M
	}{
		{
			name:     "no alias yet",
			previous: "",
			want:     bson.M{"shortId": "abcdefg", "alias": bson.M{"$in": bson.A{"", nil}}},
		},
		{
			name:     "replacing an alias",
			previous: "promo",
			want:     bson.M{"shortId": "abcdefg", "alias": "promo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aliasSwapFilter("abcdefg", tt.previous); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("aliasSwapFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}
